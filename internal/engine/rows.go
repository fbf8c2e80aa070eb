package engine

import (
	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// binding is one element of the evaluated row set: alias → source row.
// The absent side of an unmatched left join has no entry, so field access
// through it yields null.
type binding map[string]ir.Row

// buildRowSet produces the pre-WHERE row set: a plain scan, a cartesian
// product, or a join.
func (e *Engine) buildRowSet(spec *query.Spec) ([]binding, error) {
	left, err := e.scan(spec.From)
	if err != nil {
		return nil, err
	}

	switch {
	case spec.Cross != nil:
		right, err := e.scan(*spec.Cross)
		if err != nil {
			return nil, err
		}
		return crossProduct(spec.From.Alias, left, spec.Cross.Alias, right), nil

	case spec.Join != nil:
		right, err := e.scan(spec.Join.Source)
		if err != nil {
			return nil, err
		}
		return e.joinRows(spec.From.Alias, left, spec.Join, right)

	default:
		out := make([]binding, len(left))
		for i, row := range left {
			out[i] = binding{spec.From.Alias: row}
		}
		return out, nil
	}
}

// scan snapshots a source's rows. Validation has already checked the table
// against the schema map, but registration and validation schemas can
// diverge only through misuse, so the lookup stays guarded.
func (e *Engine) scan(ref query.SourceRef) ([]ir.Row, error) {
	src, found := e.sources[ref.Table]
	if !found {
		return nil, NewUnknownSourceError(ref.Table)
	}
	return src.Rows(), nil
}

// crossProduct pairs every left row with every right row, left-major, so
// output order follows both insertion orders.
func crossProduct(leftAlias string, left []ir.Row, rightAlias string, right []ir.Row) []binding {
	out := make([]binding, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			out = append(out, binding{leftAlias: l, rightAlias: r})
		}
	}
	return out
}

// joinRows evaluates an inner or left join. For each left row the ON
// predicate selects matching right rows; a left join emits unmatched left
// rows with the right alias absent.
func (e *Engine) joinRows(leftAlias string, left []ir.Row, join *query.Join, right []ir.Row) ([]binding, error) {
	rightAlias := join.Source.Alias
	var out []binding
	for _, l := range left {
		matched := false
		for _, r := range right {
			b := binding{leftAlias: l, rightAlias: r}
			verdict, err := e.evalPredicate(join.On, b)
			if err != nil {
				return nil, err
			}
			if verdict == tvTrue {
				matched = true
				out = append(out, b)
			}
		}
		if !matched && join.Kind == query.LeftJoin {
			out = append(out, binding{leftAlias: l})
		}
	}
	return out, nil
}
