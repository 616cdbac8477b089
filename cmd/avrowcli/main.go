// Command avrowcli is a thin inspector shell over the avrow core:
// metadata, schema, canonical, fingerprint, read, and bytes subcommands,
// each parameterized by a datafile path. It carries the ambient CLI and
// logging stack -- github.com/spf13/cobra for argument parsing and
// charm.land/log/v2 for diagnostics -- neither of which the library
// packages import.
package main

import (
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/creativcoder/avrow/cmd/avrowcli/internal/inspect"
)

func main() {
	logger := log.New(os.Stderr)

	root := &cobra.Command{
		Use:           "avrowcli",
		Short:         "Inspect Avro Object Container Files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		metadataCmd(logger),
		schemaCmd(logger),
		canonicalCmd(logger),
		fingerprintCmd(logger),
		readCmd(logger),
		bytesCmd(logger),
	)

	if err := root.Execute(); err != nil {
		logger.Error("avrowcli failed", "err", err)
		os.Exit(1)
	}
}

func metadataCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <datafile>",
		Short: "Print each header metadata key with its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect.Metadata(cmd.OutOrStdout(), args[0])
		},
	}
}

func schemaCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <datafile>",
		Short: "Print the embedded writer schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect.Schema(cmd.OutOrStdout(), args[0])
		},
	}
}

func canonicalCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "canonical <datafile>",
		Short: "Print the canonical form of the embedded writer schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect.Canonical(cmd.OutOrStdout(), args[0])
		},
	}
}

func fingerprintCmd(logger *log.Logger) *cobra.Command {
	var algo string
	c := &cobra.Command{
		Use:   "fingerprint <datafile>",
		Short: "Print the schema fingerprint under the selected algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect.Fingerprint(cmd.OutOrStdout(), args[0], algo)
		},
	}
	c.Flags().StringVar(&algo, "algo", "rabin64", "fingerprint algorithm: rabin64, sha256, md5")
	return c
}

func readCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "read <datafile>",
		Short: "Print each decoded value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect.Read(cmd.OutOrStdout(), args[0])
		},
	}
}

func bytesCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "bytes <datafile>",
		Short: "Dump file bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect.Bytes(cmd.OutOrStdout(), args[0])
		},
	}
}
