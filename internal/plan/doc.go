// Package plan builds the bodies of generated functions.
//
// Generation pipeline, per query:
//  1. Sink Cases that cannot take part (Never or absent slots)
//  2. Accessors: one type switch clause per variant, values read from the
//     matched variant
//  3. Lookups: one if-arm per Case, conditions from equality patterns,
//     fields filled from captured parameters
//  4. Assemble the mode's fallback (zero value, panic or collected slice)
//
// The result is a Function: a rendered signature plus a structured Body
// consumed by the gen templates.
package plan
