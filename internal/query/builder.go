package query

import "github.com/tobin-dev/relq/internal/ir"

// Builder assembles a Spec fluently. It performs no validation; Validate
// runs against the finished Spec before evaluation.
type Builder struct {
	spec Spec
}

// From starts a query over a table bound to an alias.
func From(table, alias string) *Builder {
	return &Builder{spec: Spec{
		From:  SourceRef{Table: table, Alias: alias},
		Limit: -1,
	}}
}

// Cross adds a second source with no join condition; rows pair as a
// cartesian product and WHERE does the filtering (theta-join shape).
func (b *Builder) Cross(table, alias string) *Builder {
	b.spec.Cross = &SourceRef{Table: table, Alias: alias}
	return b
}

// InnerJoin adds an inner join against a second source.
func (b *Builder) InnerJoin(table, alias string, on Predicate) *Builder {
	b.spec.Join = &Join{Kind: InnerJoin, Source: SourceRef{Table: table, Alias: alias}, On: on}
	return b
}

// LeftJoin adds a left outer join against a second source.
func (b *Builder) LeftJoin(table, alias string, on Predicate) *Builder {
	b.spec.Join = &Join{Kind: LeftJoin, Source: SourceRef{Table: table, Alias: alias}, On: on}
	return b
}

// Fetch marks the join for eager entity materialization (fetch join).
// No-op when no join is present.
func (b *Builder) Fetch() *Builder {
	if b.spec.Join != nil {
		b.spec.Join.Fetch = true
	}
	return b
}

// Where adds predicates; multiple calls and multiple arguments conjoin.
func (b *Builder) Where(ps ...Predicate) *Builder {
	if len(ps) == 0 {
		return b
	}
	all := ps
	if b.spec.Where != nil {
		all = append([]Predicate{b.spec.Where}, ps...)
	}
	if len(all) == 1 {
		b.spec.Where = all[0]
	} else {
		b.spec.Where = And{Ps: all}
	}
	return b
}

// Select adds projections; multiple calls and multiple arguments
// accumulate in order.
func (b *Builder) Select(ps ...Projection) *Builder {
	b.spec.Select = append(b.spec.Select, ps...)
	return b
}

// GroupBy adds grouping key fields; multiple calls accumulate in order.
func (b *Builder) GroupBy(fields ...Field) *Builder {
	b.spec.GroupBy = append(b.spec.GroupBy, fields...)
	return b
}

// OrderBy adds ordering keys; multiple calls accumulate in order.
func (b *Builder) OrderBy(orders ...Order) *Builder {
	b.spec.OrderBy = append(b.spec.OrderBy, orders...)
	return b
}

// Offset sets the number of rows skipped before results are produced.
func (b *Builder) Offset(n int64) *Builder {
	b.spec.Offset = n
	return b
}

// Limit caps the number of produced rows.
func (b *Builder) Limit(n int64) *Builder {
	b.spec.Limit = n
	return b
}

// Spec returns the assembled query.
func (b *Builder) Spec() *Spec {
	s := b.spec
	return &s
}

// F references a field of an aliased source.
func F(alias, name string) Field {
	return Field{Alias: alias, Name: name}
}

// Val wraps a value as a constant expression.
func Val(v ir.Value) Const {
	return Const{Value: v}
}

// Str wraps a string literal (NFC-normalized) as a constant expression.
func Str(s string) Const {
	return Const{Value: ir.NewString(s)}
}

// Num wraps an integer literal as a constant expression.
func Num(n int64) Const {
	return Const{Value: ir.NewInt(n)}
}

// P labels a projection expression.
func P(label string, e Expr) Projection {
	return Projection{Label: label, Expr: e}
}

// Eq builds left = right.
func Eq(left, right Expr) Predicate { return Compare{Op: OpEq, Left: left, Right: right} }

// Ne builds left != right.
func Ne(left, right Expr) Predicate { return Compare{Op: OpNe, Left: left, Right: right} }

// Lt builds left < right.
func Lt(left, right Expr) Predicate { return Compare{Op: OpLt, Left: left, Right: right} }

// Loe builds left <= right.
func Loe(left, right Expr) Predicate { return Compare{Op: OpLoe, Left: left, Right: right} }

// Gt builds left > right.
func Gt(left, right Expr) Predicate { return Compare{Op: OpGt, Left: left, Right: right} }

// Goe builds left >= right.
func Goe(left, right Expr) Predicate { return Compare{Op: OpGoe, Left: left, Right: right} }

// Count builds a row-count aggregate.
func Count() Aggregate { return Aggregate{Fn: AggCount} }

// Sum builds a sum aggregate over a field.
func Sum(f Field) Aggregate { return Aggregate{Fn: AggSum, Arg: f} }

// Avg builds an average aggregate over a field.
func Avg(f Field) Aggregate { return Aggregate{Fn: AggAvg, Arg: f} }

// Max builds a maximum aggregate over a field.
func Max(f Field) Aggregate { return Aggregate{Fn: AggMax, Arg: f} }

// Min builds a minimum aggregate over a field.
func Min(f Field) Aggregate { return Aggregate{Fn: AggMin, Arg: f} }

// Sub embeds a nested query as a scalar expression.
func Sub(spec *Spec) Subquery { return Subquery{Spec: spec} }
