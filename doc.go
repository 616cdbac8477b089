// Package avrow implements the Apache Avro Object Container File format:
// schema parsing, a typed value model, binary encoding/decoding, schema
// resolution, and canonical-form fingerprinting. Container-file framing
// (header, blocks, compression codecs) lives in the ocf subpackage.
package avrow
