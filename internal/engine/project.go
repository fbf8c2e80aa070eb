package engine

import (
	"fmt"
	"strings"

	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// Tuple is one projected result row: positional values with optional labels.
type Tuple struct {
	labels []string
	values []ir.Value
}

// Len returns the number of projected values.
func (t Tuple) Len() int { return len(t.values) }

// Value returns the value at a projection position.
func (t Tuple) Value(i int) ir.Value {
	if i < 0 || i >= len(t.values) {
		return ir.Null{}
	}
	return t.values[i]
}

// Get returns the value of the projection carrying the given label.
func (t Tuple) Get(label string) ir.Value {
	for i, l := range t.labels {
		if l == label {
			return t.values[i]
		}
	}
	return ir.Null{}
}

// Labels returns the projection labels in position order.
func (t Tuple) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Values returns the projected values in position order.
func (t Tuple) Values() []ir.Value {
	out := make([]ir.Value, len(t.values))
	copy(out, t.values)
	return out
}

// projectTuple evaluates a projection list against one binding.
func (e *Engine) projectTuple(projections []query.Projection, b binding) (Tuple, error) {
	t := Tuple{
		labels: make([]string, len(projections)),
		values: make([]ir.Value, len(projections)),
	}
	for i, p := range projections {
		v, err := e.evalExpr(p.Expr, b)
		if err != nil {
			return Tuple{}, err
		}
		t.labels[i] = p.Label
		t.values[i] = v
	}
	return t, nil
}

// evalExpr evaluates a row-level expression against one binding.
// Aggregates never reach here: validation confines them to grouped or
// lone-aggregate specs, which evaluate through the aggregate path.
// Exhaustive over the sealed Expr interface.
func (e *Engine) evalExpr(expr query.Expr, b binding) (ir.Value, error) {
	switch ex := expr.(type) {
	case query.Field:
		return b[ex.Alias].Get(ex.Name), nil

	case query.Const:
		if ex.Value == nil {
			return ir.Null{}, nil
		}
		return ex.Value, nil

	case query.Concat:
		var sb strings.Builder
		for _, part := range ex.Parts {
			v, err := e.evalExpr(part, b)
			if err != nil {
				return nil, err
			}
			text, present := ir.Format(v)
			if !present {
				// Absent text stays absent.
				return ir.Null{}, nil
			}
			sb.WriteString(text)
		}
		return ir.NewString(sb.String()), nil

	case query.Case:
		input, err := e.evalExpr(ex.Input, b)
		if err != nil {
			return nil, err
		}
		for _, branch := range ex.Branches {
			if eq, known := ir.Equal(input, branch.When); known && eq {
				return orNull(branch.Then), nil
			}
		}
		return orNull(ex.Otherwise), nil

	case query.Aggregate:
		return nil, query.NewInvalidOperationError(
			fmt.Sprintf("%s aggregate outside an aggregation context", ex.Fn))

	case query.Subquery:
		return e.evalSubqueryScalar(ex)

	default:
		return nil, query.NewInvalidOperationError(fmt.Sprintf("unknown expression type %T", expr))
	}
}

// evalSubqueryScalar evaluates an uncorrelated nested query to one value.
// An empty result is null; several rows fail with NON_UNIQUE_RESULT.
func (e *Engine) evalSubqueryScalar(sub query.Subquery) (ir.Value, error) {
	values, err := e.evalSubquerySet(sub)
	if err != nil {
		return nil, err
	}
	switch len(values) {
	case 0:
		return ir.Null{}, nil
	case 1:
		return values[0], nil
	default:
		return nil, NewNonUniqueResultError(len(values))
	}
}

// evalSubquerySet evaluates an uncorrelated nested query to its
// one-column value sequence, bottom-up.
func (e *Engine) evalSubquerySet(sub query.Subquery) ([]ir.Value, error) {
	tuples, err := e.Fetch(sub.Spec)
	if err != nil {
		return nil, fmt.Errorf("subquery: %w", err)
	}
	values := make([]ir.Value, len(tuples))
	for i, t := range tuples {
		values[i] = t.Value(0)
	}
	return values, nil
}

func orNull(v ir.Value) ir.Value {
	if v == nil {
		return ir.Null{}
	}
	return v
}
