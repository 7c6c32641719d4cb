package plan

import (
	"strings"

	"unionbind/internal/common"
	"unionbind/internal/query"
)

// Function is one generated function ready for rendering.
type Function struct {
	// Name of the generated function.
	Name string
	// Union is the name of the union the function dispatches over.
	Union string
	// Mode is the output mode of the query.
	Mode query.Mode
	// TypeParams is the rendered type parameter list, e.g. "[T any]", or "".
	TypeParams string
	// Params is the rendered parameter list without parentheses.
	Params string
	// Results is the rendered result list, parenthesized when there are several.
	Results string
	// Body is the dispatch body.
	Body Body
	// Spec is the query the function was generated from.
	Spec *query.Spec
}

// Signature returns "Name[TP](params) results".
func (f *Function) Signature() string {
	return f.Name + f.TypeParams + "(" + f.Params + ") " + f.Results
}

// BodyKind selects the dispatch construct.
type BodyKind int

const (
	// BodySwitch is a type switch over the union value (accessors).
	BodySwitch BodyKind = iota
	// BodyChain is an ordered chain of if-arms over the parameters (lookups).
	BodyChain
)

// String returns a human-readable body kind.
func (k BodyKind) String() string {
	switch k {
	case BodySwitch:
		return "switch"
	case BodyChain:
		return "chain"
	default:
		return common.UnknownStr
	}
}

// Body is the dispatch body of a generated function.
type Body struct {
	Kind BodyKind
	// Subject is the switch operand (BodySwitch only).
	Subject string
	// Var binds the matched variant in the switch; empty when no clause reads it.
	Var string
	// Prelude statements run before dispatch.
	Prelude []string
	// Arms in Case order.
	Arms []Arm
	// Tail statements run when no arm returned.
	Tail []string
}

// IsSwitch reports whether the body is a type switch.
func (b Body) IsSwitch() bool {
	return b.Kind == BodySwitch
}

// Arm is one switch clause or one if-arm.
type Arm struct {
	// Type is the clause type of a switch arm, e.g. "Prod" or "*Delta".
	Type string
	// Conditions are joined with && in a chain arm; none means unconditional.
	Conditions []string
	// Stmts are the arm's statements.
	Stmts []string
}

// Condition returns the conjunction of the arm's conditions.
func (a Arm) Condition() string {
	return strings.Join(a.Conditions, " && ")
}
