package engine

import (
	"slices"

	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// sortBindings orders the row set stably by the ORDER BY keys in sequence.
// Ties (and incomparable pairs) fall through to the next key; a full tie
// preserves insertion order.
func (e *Engine) sortBindings(rows []binding, orders []query.Order) error {
	if len(orders) == 0 {
		return nil
	}

	var evalErr error
	slices.SortStableFunc(rows, func(a, b binding) int {
		for _, o := range orders {
			av, err := e.evalExpr(o.Field, a)
			if err != nil {
				evalErr = err
				return 0
			}
			bv, err := e.evalExpr(o.Field, b)
			if err != nil {
				evalErr = err
				return 0
			}
			if c := compareForOrder(av, bv, o); c != 0 {
				return c
			}
		}
		return 0
	})
	return evalErr
}

// compareForOrder compares two values under one ORDER BY key, folding in
// direction and null placement. Default placement puts nulls first when
// ascending and last when descending; NullsFirst/NullsLast override both.
func compareForOrder(a, b ir.Value, o query.Order) int {
	aNull, bNull := ir.IsNull(a), ir.IsNull(b)
	if aNull || bNull {
		if aNull == bNull {
			return 0
		}
		nullsFirst := o.Nulls == query.NullsFirst ||
			(o.Nulls == query.NullsDefault && !o.Desc)
		if aNull == nullsFirst {
			return -1
		}
		return 1
	}

	c, known := ir.Compare(a, b)
	if !known {
		return 0
	}
	if o.Desc {
		return -c
	}
	return c
}
