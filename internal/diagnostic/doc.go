// Package diagnostic provides structured, positioned errors and warnings for
// the binding compiler.
//
// Every static problem found while reading directives, building cases,
// parsing queries, validating or generating becomes a Diagnostic carrying a
// stable code, the source position it refers to, the union and function it
// belongs to and optional "did you mean" suggestions. Diagnostics never stop
// the pass: one rejected function does not block the others.
package diagnostic
