// Package rule provides the canonical rule model shared by the normalizer,
// the executor, the store and the CLI.
//
// This package imports nothing internal. Every other internal package
// depends on it, which keeps the model at the bottom of the dependency graph.
//
// Key design constraints:
//   - Find and Replace are sealed sum types (Text, *Pattern, FindFunc and
//     Text, ReplaceFunc). Type switches over them are exhaustive.
//   - A Rule is a plain value. Normalization builds new Rules instead of
//     marking caller data, so feeding a Rule back through the normalizer is
//     a no-op.
//   - Patterns are compiled with regexp2 in ECMAScript mode so rule files
//     written for JavaScript regular expressions keep their meaning.
package rule
