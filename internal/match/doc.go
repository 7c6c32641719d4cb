// Package match provides identifier handling shared by the binding and query
// layers: slot-name derivation from Go identifiers and "did you mean"
// suggestions based on edit distance.
//
// Key functions:
//   - SlotName: derives the binding slot name of a Go field or function name
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names close to a misspelled one
package match
