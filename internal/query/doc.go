// Package query parses and validates //bind:query directives.
//
// A query is a Go function header optionally followed by an output mode:
//
//	//bind:query func (e Environment) PushStage() (string, bool)
//	//bind:query func ByRealm(realm string) []Environment, return = Vec
//	//bind:query func (e Environment) Stage() string, return = Strict(pushStage)
//
// A query with a receiver is an accessor: it projects a union value to one
// slot. A query without one is a lookup (or constructor): it selects the
// Cases whose slots match its parameters.
//
// Modes:
//   - Option: (T, bool), false when no Case produces a value (default)
//   - Strict: T, every variant must produce a value
//   - Unwrap: T, panics when nothing matches
//   - Vec: []T, every matching Case contributes in Case order
package query
