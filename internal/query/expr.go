package query

import "github.com/tobin-dev/relq/internal/ir"

// Expr represents a value-producing expression evaluated per result row.
//
// This is a sealed interface - only types in this package implement it.
//
// Expr types:
//   - Field: reference to a source field via its alias
//   - Const: literal value
//   - Concat: text concatenation with decimal coercion of numbers
//   - Case: value-mapped conditional (when/then/otherwise)
//   - Aggregate: count/sum/avg/max/min over a group or the whole result
//   - Subquery: scalar result of a nested query
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Field references a field of a query source by alias and name.
//
// Example: Field{Alias: "m", Name: "age"} reads the "age" field of the
// source registered under alias "m". Reading from the absent side of an
// unmatched left join yields null, not an error.
type Field struct {
	Alias string // Source alias within the enclosing Spec
	Name  string // Field name in that source's schema
}

func (Field) exprNode() {}

// Const is a literal value projected or compared as-is.
type Const struct {
	Value ir.Value
}

func (Const) exprNode() {}

// Concat joins the text form of its parts left to right.
//
// Numeric parts are rendered in decimal text form. If any part evaluates to
// null the whole concatenation is null (absent text stays absent, matching
// SQL string semantics).
type Concat struct {
	Parts []Expr
}

func (Concat) exprNode() {}

// CaseBranch is one when/then arm of a Case expression.
type CaseBranch struct {
	When ir.Value // Compared against the Case input
	Then ir.Value // Result when the comparison matches
}

// Case is a value-mapped conditional expression:
//
//	when(V1).then(R1).when(V2).then(R2).otherwise(Rdefault)
//
// The input expression is evaluated once per row and compared against each
// branch's When value left to right; the first match wins. With no match the
// Otherwise value is produced.
type Case struct {
	Input     Expr
	Branches  []CaseBranch
	Otherwise ir.Value
}

func (Case) exprNode() {}

// AggFn identifies an aggregate function.
type AggFn int

const (
	AggCount AggFn = iota
	AggSum
	AggAvg
	AggMax
	AggMin
)

// String returns the lowercase function name for diagnostics.
func (fn AggFn) String() string {
	switch fn {
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	case AggAvg:
		return "avg"
	case AggMax:
		return "max"
	case AggMin:
		return "min"
	default:
		return "unknown"
	}
}

// Aggregate computes a scalar over a group of rows (or over the whole
// retained row set when the Spec has no GROUP BY).
//
// Count with a nil Arg counts rows. Sum and Avg require a numeric argument,
// checked at validation time. Null arguments are skipped; an aggregate over
// no non-null inputs is null (Count is 0).
type Aggregate struct {
	Fn  AggFn
	Arg Expr // nil only for Count
}

func (Aggregate) exprNode() {}

// Subquery embeds a nested query as a scalar expression.
//
// The nested Spec must produce a single projection. Used as the right-hand
// side of comparisons (age >= avg-of-subquery) and as the set of an In
// predicate. Nested queries are uncorrelated: they are evaluated once,
// bottom-up, with no reference to the outer row.
type Subquery struct {
	Spec *Spec
}

func (Subquery) exprNode() {}
