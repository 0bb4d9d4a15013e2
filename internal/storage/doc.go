// Package storage holds the single-record persistence capability used for the
// credentials and token records.
//
// A Record is an opaque byte blob with whole-record Get/Set semantics. The
// file-backed implementation is what the CLI and MCP server use; the
// in-memory implementation backs tests.
package storage
