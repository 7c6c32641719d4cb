// Package gen renders generated functions into Go source files.
//
// Generation approach uses text/template + golang.org/x/tools/imports for
// readable, deterministic output: one <union>_bind.go file per union, with
// the imports of the union's and variants' files pruned to those in use.
//
// Body shapes:
//   - Type switch over the receiver (accessors)
//   - Ordered if-chain over the parameters (lookups)
//   - Fallback: zero value, panic or collected slice, per output mode
package gen
