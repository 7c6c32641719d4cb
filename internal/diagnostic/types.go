package diagnostic

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"unionbind/internal/common"
)

// Diagnostic codes.
const (
	CodeParseBinding       = "parse_binding"
	CodeParseQuery         = "parse_query"
	CodeFieldRedefined     = "field_redefined"
	CodeMissingOutput      = "missing_output"
	CodeStrictCoverage     = "strict_coverage"
	CodeLookupCoverage     = "lookup_coverage"
	CodeArgumentConflict   = "argument_conflict"
	CodeMissingReturnType  = "missing_return_type"
	CodeResultShape        = "result_shape"
	CodeReceiverType       = "receiver_type"
	CodeNotExhaustive      = "not_exhaustive"
	CodeUncapturedField    = "uncaptured_field"
	CodeUnmatchableBinding = "unmatchable_binding"
	CodeUnknownDirective   = "unknown_directive"
	CodeMisplacedDirective = "misplaced_directive"
	CodeUnknownUnion       = "unknown_union"
	CodeUnknownVariant     = "unknown_variant"
)

// Diagnostics holds all diagnostics produced for a run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Pos is the source location the diagnostic refers to (may be invalid).
	Pos token.Position
	// Union names the union being processed (if any).
	Union string
	// Function names the generated function being processed (if any).
	Function string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Error is a single error diagnostic usable as an error value.
type Error struct {
	Diagnostic
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Diagnostic.String()
}

// Errorf builds an error diagnostic at pos.
func Errorf(code string, pos token.Position, format string, args ...any) *Error {
	return &Error{Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}}
}

// WithSuggestions returns e with suggestions attached.
func (e *Error) WithSuggestions(s ...string) *Error {
	e.Suggestions = append(e.Suggestions, s...)
	return e
}

// Add records an error. Plain errors are wrapped; *Error values keep their
// code and position. Union and function context is filled in when missing.
func (d *Diagnostics) Add(err error, union, function string) {
	if err == nil {
		return
	}

	var de *Error
	if !errors.As(err, &de) {
		d.Errors = append(d.Errors, Diagnostic{
			Severity: SeverityError,
			Message:  err.Error(),
			Union:    union,
			Function: function,
		})

		return
	}

	diag := de.Diagnostic
	if diag.Union == "" {
		diag.Union = union
	}

	if diag.Function == "" {
		diag.Function = function
	}

	if diag.Severity == SeverityWarning {
		d.Warnings = append(d.Warnings, diag)
		return
	}

	d.Errors = append(d.Errors, diag)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code string, pos token.Position, union, message string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Pos:      pos,
		Union:    union,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// Err returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "\n"))
}

// String returns a formatted diagnostic string:
//
//	file.go:12:3: Environment.ByRealm: [lookup_coverage] message (did you mean "x"?)
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Pos.IsValid() {
		b.WriteString(d.Pos.String())
		b.WriteString(": ")
	}

	switch {
	case d.Union != "" && d.Function != "":
		b.WriteString(d.Union + "." + d.Function + ": ")
	case d.Union != "":
		b.WriteString(d.Union + ": ")
	case d.Function != "":
		b.WriteString(d.Function + ": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		quoted := make([]string, len(d.Suggestions))
		for i, s := range d.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}

		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(quoted, " or "))
	}

	return b.String()
}
