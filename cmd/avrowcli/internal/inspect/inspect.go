// Package inspect implements the six avrowcli subcommands against an
// Object Container File path. Exiting non-zero on a core error is
// handled by main.go returning these functions' errors to cobra, which
// SilenceErrors/SilenceUsage leaves to the caller to print.
package inspect

import (
	"fmt"
	"io"
	"os"

	"github.com/creativcoder/avrow"
	"github.com/creativcoder/avrow/ocf"
)

func openReader(path string) (*ocf.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := ocf.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

// Metadata prints each header metadata key with its value.
func Metadata(w io.Writer, path string) error {
	r, f, err := openReader(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for k, v := range r.Metadata() {
		fmt.Fprintf(w, "%s: %s\n", k, v)
	}
	return nil
}

// Schema prints the embedded writer schema.
func Schema(w io.Writer, path string) error {
	r, f, err := openReader(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(w, r.WriterSchema().String())
	return nil
}

// Canonical prints the canonical form of the embedded writer schema.
func Canonical(w io.Writer, path string) error {
	r, f, err := openReader(path)
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := r.WriterSchema().Canonical()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(c))
	return nil
}

// Fingerprint prints the schema fingerprint under the named algorithm,
// one of "rabin64", "sha256", "md5".
func Fingerprint(w io.Writer, path, algo string) error {
	r, f, err := openReader(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var a avrow.FingerprintAlgorithm
	switch algo {
	case "rabin64", "":
		a = avrow.Rabin64
	case "sha256":
		a = avrow.SHA256
	case "md5":
		a = avrow.MD5
	default:
		return fmt.Errorf("avrowcli: unknown fingerprint algorithm %q", algo)
	}

	fp, err := r.WriterSchema().Fingerprint(a)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, fp)
	return nil
}

// Read prints each decoded value.
func Read(w io.Writer, path string) error {
	r, f, err := openReader(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for r.HasNext() {
		v, err := r.Next()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%#v\n", v)
	}
	return r.Err()
}

// Bytes dumps the file's raw bytes.
func Bytes(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
