// Package bind turns //bind:case directives into Cases.
//
// A binding group is one directive line of comma-separated bindings:
//
//	//bind:case realm = "prod", stage = "canary", region = !
//
// Each binding names a slot and is either an expression (Expr) or the
// absence marker "!" (Never). Stored fields of the variant contribute Field
// bindings under their slot names. A Case is one variant together with one
// merged binding map; a variant with N groups yields N Cases.
//
// An Expr binding has two readings. As a value it is evaluated with stored
// field slots rewritten to reads of the matched variant. As a pattern it is
// a wildcard (_), a capture (a bare stored field slot) or an equality test.
package bind
