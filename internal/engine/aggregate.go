package engine

import (
	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// groupTuples partitions retained rows by the group key and computes the
// projections per group. Groups surface in order of each distinct key's
// first appearance, which follows the underlying insertion order.
func (e *Engine) groupTuples(spec *query.Spec, retained []binding) ([]Tuple, error) {
	type group struct {
		key  []ir.Value
		rows []binding
	}
	var groups []*group

	for _, b := range retained {
		key := make([]ir.Value, len(spec.GroupBy))
		for i, f := range spec.GroupBy {
			v, err := e.evalExpr(f, b)
			if err != nil {
				return nil, err
			}
			key[i] = v
		}

		var target *group
		for _, g := range groups {
			if sameKey(g.key, key) {
				target = g
				break
			}
		}
		if target == nil {
			target = &group{key: key}
			groups = append(groups, target)
		}
		target.rows = append(target.rows, b)
	}

	tuples := make([]Tuple, 0, len(groups))
	for _, g := range groups {
		tuple, err := e.projectGroup(spec, g.rows)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, tuple)
	}
	return tuples, nil
}

// sameKey compares two group keys. Nulls group together: within a grouping
// key absence is a value of its own, not an unknown.
func sameKey(a, b []ir.Value) bool {
	for i := range a {
		aNull, bNull := ir.IsNull(a[i]), ir.IsNull(b[i])
		if aNull || bNull {
			if aNull != bNull {
				return false
			}
			continue
		}
		if eq, known := ir.Equal(a[i], b[i]); !known || !eq {
			return false
		}
	}
	return true
}

// aggregateTuple computes a lone aggregate row over all retained rows.
func (e *Engine) aggregateTuple(spec *query.Spec, retained []binding) (Tuple, error) {
	return e.projectGroup(spec, retained)
}

// projectGroup evaluates one output tuple for a set of rows: aggregates
// digest the whole set, grouping fields read from any member (they are
// constant within the group by construction).
func (e *Engine) projectGroup(spec *query.Spec, rows []binding) (Tuple, error) {
	t := Tuple{
		labels: make([]string, len(spec.Select)),
		values: make([]ir.Value, len(spec.Select)),
	}
	for i, p := range spec.Select {
		t.labels[i] = p.Label

		if agg, isAgg := p.Expr.(query.Aggregate); isAgg {
			v, err := e.evalAggregate(agg, rows)
			if err != nil {
				return Tuple{}, err
			}
			t.values[i] = v
			continue
		}

		if len(rows) == 0 {
			t.values[i] = ir.Null{}
			continue
		}
		v, err := e.evalExpr(p.Expr, rows[0])
		if err != nil {
			return Tuple{}, err
		}
		t.values[i] = v
	}
	return t, nil
}

// evalAggregate computes one aggregate over a row set. Null inputs are
// skipped; an aggregate over no non-null inputs is null, except Count,
// which is 0.
func (e *Engine) evalAggregate(agg query.Aggregate, rows []binding) (ir.Value, error) {
	if agg.Fn == query.AggCount && agg.Arg == nil {
		return ir.NewInt(int64(len(rows))), nil
	}

	var (
		count    int64
		sumInt   int64
		sumFloat float64
		sawFloat bool
		best     ir.Value = ir.Null{}
	)

	for _, b := range rows {
		v, err := e.evalExpr(agg.Arg, b)
		if err != nil {
			return nil, err
		}
		if ir.IsNull(v) {
			continue
		}
		count++

		switch agg.Fn {
		case query.AggSum, query.AggAvg:
			switch n := v.(type) {
			case ir.Int:
				sumInt += int64(n)
			case ir.Float:
				sawFloat = true
				sumFloat += float64(n)
			}
		case query.AggMax:
			if c, known := ir.Compare(v, best); ir.IsNull(best) || (known && c > 0) {
				best = v
			}
		case query.AggMin:
			if c, known := ir.Compare(v, best); ir.IsNull(best) || (known && c < 0) {
				best = v
			}
		}
	}

	switch agg.Fn {
	case query.AggCount:
		return ir.NewInt(count), nil
	case query.AggSum:
		if count == 0 {
			return ir.Null{}, nil
		}
		if sawFloat {
			return ir.NewFloat(sumFloat + float64(sumInt)), nil
		}
		return ir.NewInt(sumInt), nil
	case query.AggAvg:
		if count == 0 {
			return ir.Null{}, nil
		}
		return ir.NewFloat((sumFloat + float64(sumInt)) / float64(count)), nil
	case query.AggMax, query.AggMin:
		return best, nil
	default:
		return nil, query.NewInvalidOperationError("unknown aggregate function")
	}
}
