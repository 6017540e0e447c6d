// Package source decodes rule files into canonical rules.
//
// A rule source is decoded according to a Mode, then handed to
// compiler.Normalize. Text sources are split into lines and grouped into
// positional triples; JSON and YAML sources decode to a sequence of raw
// entries; CUE and TOML sources carry that sequence under a top-level rules
// field.
// Programmatic callers skip decoding entirely and use FromValue.
package source
