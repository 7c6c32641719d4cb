// Package analyze provides package loading and union extraction.
//
// It uses golang.org/x/tools/go/packages to locate package files, parses
// them with comments and builds an in-memory model of the tagged unions they
// declare.
//
// A union is a named interface type carrying //bind: directives in its doc
// comment. Its variants are the named types of the same package that declare
// every method listed in the interface:
//
//	//bind:query func ByRealm(realm string) []Environment, return = Vec
//	type Environment interface {
//		isEnvironment()
//	}
//
//	//bind:case realm = "prod"
//	type Prod struct{}
//
//	func (Prod) isEnvironment() {}
//
// Key types:
//   - Union: name, generic parameters, query directives and ordered variants
//   - Variant: name, kind (unit/struct/defined), pointer-ness, fields, case directives
//   - Field: Go name, slot name, type and position
//   - Directive: raw directive text with its source position
package analyze
