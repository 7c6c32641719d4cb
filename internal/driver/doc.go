// Package driver runs the per-union generation pass and the package-level
// pipeline around it.
//
// For one union the pass is:
//
//  1. build the Cases of every variant (a variant whose groups do not
//     build is reported and contributes no Cases);
//  2. parse every query;
//  3. validate it against the Cases;
//  4. generate its function.
//
// Every query is independent: a rejected query is reported and the rest
// are still generated, in query order.
//
// Run wraps the pass with package loading, binding table merging, file
// emission and writing.
package driver
