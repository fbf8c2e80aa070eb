package engine

import (
	"fmt"
	"strings"

	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// tv is a three-valued truth value. Unknown arises from comparisons against
// absent values; it propagates through Not and And per Kleene logic and
// filters as false at the top of WHERE and ON.
type tv int

const (
	tvFalse tv = iota
	tvTrue
	tvUnknown
)

func tvOf(b bool) tv {
	if b {
		return tvTrue
	}
	return tvFalse
}

// evalPredicate evaluates a predicate against one binding.
// Exhaustive over the sealed Predicate interface.
func (e *Engine) evalPredicate(p query.Predicate, b binding) (tv, error) {
	switch pred := p.(type) {
	case query.Compare:
		return e.evalCompare(pred, b)

	case query.In:
		return e.evalIn(pred, b)

	case query.Between:
		v, err := e.evalExpr(pred.Expr, b)
		if err != nil {
			return tvFalse, err
		}
		lo, loOK := ir.Compare(v, pred.Lo)
		hi, hiOK := ir.Compare(v, pred.Hi)
		if !loOK || !hiOK {
			return tvUnknown, nil
		}
		return tvOf(lo >= 0 && hi <= 0), nil

	case query.Match:
		v, err := e.evalExpr(pred.Expr, b)
		if err != nil {
			return tvFalse, err
		}
		s, isStr := v.(ir.String)
		if !isStr {
			return tvUnknown, nil
		}
		text := string(ir.NewString(pred.Text))
		switch pred.Mode {
		case query.MatchPrefix:
			return tvOf(strings.HasPrefix(string(s), text)), nil
		case query.MatchContains:
			return tvOf(strings.Contains(string(s), text)), nil
		case query.MatchSuffix:
			return tvOf(strings.HasSuffix(string(s), text)), nil
		default:
			return tvFalse, query.NewInvalidOperationError(fmt.Sprintf("unknown match mode %d", pred.Mode))
		}

	case query.IsNull:
		v, err := e.evalExpr(pred.Expr, b)
		if err != nil {
			return tvFalse, err
		}
		// The one predicate that observes absence as a definite answer.
		return tvOf(ir.IsNull(v) != pred.Negate), nil

	case query.Not:
		inner, err := e.evalPredicate(pred.P, b)
		if err != nil {
			return tvFalse, err
		}
		switch inner {
		case tvTrue:
			return tvFalse, nil
		case tvFalse:
			return tvTrue, nil
		default:
			return tvUnknown, nil
		}

	case query.And:
		// Kleene conjunction: false dominates, then unknown.
		result := tvTrue
		for _, sub := range pred.Ps {
			verdict, err := e.evalPredicate(sub, b)
			if err != nil {
				return tvFalse, err
			}
			if verdict == tvFalse {
				return tvFalse, nil
			}
			if verdict == tvUnknown {
				result = tvUnknown
			}
		}
		return result, nil

	default:
		return tvFalse, query.NewInvalidOperationError(fmt.Sprintf("unknown predicate type %T", p))
	}
}

func (e *Engine) evalCompare(pred query.Compare, b binding) (tv, error) {
	left, err := e.evalExpr(pred.Left, b)
	if err != nil {
		return tvFalse, err
	}
	right, err := e.evalExpr(pred.Right, b)
	if err != nil {
		return tvFalse, err
	}

	switch pred.Op {
	case query.OpEq, query.OpNe:
		eq, known := ir.Equal(left, right)
		if !known {
			return tvUnknown, nil
		}
		return tvOf(eq == (pred.Op == query.OpEq)), nil
	default:
		c, known := ir.Compare(left, right)
		if !known {
			return tvUnknown, nil
		}
		switch pred.Op {
		case query.OpLt:
			return tvOf(c < 0), nil
		case query.OpLoe:
			return tvOf(c <= 0), nil
		case query.OpGt:
			return tvOf(c > 0), nil
		case query.OpGoe:
			return tvOf(c >= 0), nil
		default:
			return tvFalse, query.NewInvalidOperationError(fmt.Sprintf("unknown compare op %d", pred.Op))
		}
	}
}

func (e *Engine) evalIn(pred query.In, b binding) (tv, error) {
	v, err := e.evalExpr(pred.Expr, b)
	if err != nil {
		return tvFalse, err
	}
	if ir.IsNull(v) {
		return tvUnknown, nil
	}

	set := pred.Values
	if pred.Sub != nil {
		set, err = e.evalSubquerySet(*pred.Sub)
		if err != nil {
			return tvFalse, err
		}
	}

	for _, candidate := range set {
		if eq, known := ir.Equal(v, candidate); known && eq {
			return tvOf(!pred.Negate), nil
		}
	}
	return tvOf(pred.Negate), nil
}
