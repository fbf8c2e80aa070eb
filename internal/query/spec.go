package query

import "github.com/tobin-dev/relq/internal/ir"

// Schema maps a table's field names to their value kinds.
// Nullable fields keep their content kind; absence is a property of the
// value, not of the schema.
type Schema map[string]ir.Kind

// SourceRef names a registered table and the alias it is bound to inside a
// Spec. The same table may appear twice under distinct aliases (self-join).
type SourceRef struct {
	Table string
	Alias string
}

// JoinKind selects the join flavor.
type JoinKind int

const (
	// InnerJoin keeps only row pairs satisfying the ON predicate.
	InnerJoin JoinKind = iota
	// LeftJoin keeps every left row; unmatched rows pair with an absent
	// right side whose fields read as null.
	LeftJoin
)

// Join combines the primary source with a second source under an ON
// predicate. The predicate may reference any field of either side - no
// declared association is required.
type Join struct {
	Kind   JoinKind
	Source SourceRef
	On     Predicate
	// Fetch requests eager materialization of the joined side when results
	// are mapped back to entities (fetch join). Evaluation is unaffected.
	Fetch bool
}

// NullPlacement controls where null values sort within one ORDER BY key.
type NullPlacement int

const (
	// NullsDefault places nulls first ascending, last descending.
	NullsDefault NullPlacement = iota
	NullsFirst
	NullsLast
)

// Order is one ORDER BY key: a field, a direction, and null placement.
type Order struct {
	Field Field
	Desc  bool
	Nulls NullPlacement
}

// NullsLast returns a copy of the order with explicit nulls-last placement.
func (o Order) NullsLast() Order {
	o.Nulls = NullsLast
	return o
}

// NullsFirst returns a copy of the order with explicit nulls-first placement.
func (o Order) NullsFirst() Order {
	o.Nulls = NullsFirst
	return o
}

// Asc orders a field ascending with default null placement.
func Asc(f Field) Order {
	return Order{Field: f}
}

// Desc orders a field descending with default null placement.
func Desc(f Field) Order {
	return Order{Field: f, Desc: true}
}

// Projection is one SELECT item: an expression and an optional label for
// tuple access by name.
type Projection struct {
	Label string
	Expr  Expr
}

// Spec is the complete description of one query.
//
// Zero or one companion source: Cross (cartesian, theta-join shape) or Join
// (inner/left with ON). Select nil means "project the primary source's rows
// as-is". Limit < 0 means unbounded.
type Spec struct {
	From    SourceRef
	Cross   *SourceRef
	Join    *Join
	Where   Predicate
	Select  []Projection
	GroupBy []Field
	OrderBy []Order
	Offset  int64
	Limit   int64
}

// Aliases returns the alias → table bindings of the spec's sources, in
// declaration order. Used by validation and by the engine's row builder.
func (s *Spec) Aliases() []SourceRef {
	refs := []SourceRef{s.From}
	if s.Cross != nil {
		refs = append(refs, *s.Cross)
	}
	if s.Join != nil {
		refs = append(refs, s.Join.Source)
	}
	return refs
}

// HasAggregates reports whether any projection is an aggregate.
func (s *Spec) HasAggregates() bool {
	for _, p := range s.Select {
		if _, isAgg := p.Expr.(Aggregate); isAgg {
			return true
		}
	}
	return false
}
