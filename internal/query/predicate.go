package query

import "github.com/tobin-dev/relq/internal/ir"

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
// Predicates appear in Spec.Where and Join.On.
//
// Evaluation follows three-valued logic: a comparison touching a null
// operand is not satisfied (it is neither true nor an error). Only IsNull
// observes absence directly.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// CompareOp identifies a binary comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLoe
	OpGt
	OpGoe
)

// String returns the operator's conventional symbol.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLoe:
		return "<="
	case OpGt:
		return ">"
	case OpGoe:
		return ">="
	default:
		return "?"
	}
}

// Compare applies a binary comparison between two expressions.
//
// Both sides are full expressions, so the same node covers field-to-literal
// filters, field-to-field theta conditions, and field-to-subquery terms.
type Compare struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (Compare) predicateNode() {}

// In tests membership of an expression's value in a literal set or in the
// result set of a single-projection subquery. Exactly one of Values and Sub
// is set. Negate inverts the test (NOT IN); a null input satisfies neither
// form.
type In struct {
	Expr   Expr
	Values []ir.Value
	Sub    *Subquery
	Negate bool
}

func (In) predicateNode() {}

// Between tests Lo <= expr <= Hi, inclusive on both ends.
type Between struct {
	Expr Expr
	Lo   ir.Value
	Hi   ir.Value
}

func (Between) predicateNode() {}

// MatchMode selects the string-match position.
type MatchMode int

const (
	MatchPrefix MatchMode = iota
	MatchContains
	MatchSuffix
)

// Match tests a string expression against a fixed fragment.
// Non-string and null inputs are not satisfied.
type Match struct {
	Expr Expr
	Mode MatchMode
	Text string
}

func (Match) predicateNode() {}

// IsNull tests whether an expression's value is absent.
// With Negate it becomes the is-not-null check. This is the one predicate
// for which a null operand produces a definite answer.
type IsNull struct {
	Expr   Expr
	Negate bool
}

func (IsNull) predicateNode() {}

// Not inverts a predicate. An unknown operand stays unknown: NOT of a
// null-tainted comparison still filters the row out.
type Not struct {
	P Predicate
}

func (Not) predicateNode() {}

// And is a conjunction: all predicates must be satisfied.
// An empty conjunction is vacuously true.
type And struct {
	Ps []Predicate
}

func (And) predicateNode() {}
