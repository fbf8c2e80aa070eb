package query

import (
	"fmt"

	"github.com/tobin-dev/relq/internal/ir"
)

// Validate checks a Spec against the registered table schemas.
//
// Every field reference must resolve to a field of its alias's schema, every
// aggregate argument must carry a digestible kind, and grouping/paging must
// be structurally sound. Runs before any row is scanned so malformed queries
// never reach the evaluation pipeline.
func Validate(spec *Spec, schemas map[string]Schema) error {
	scopes, err := buildScopes(spec, schemas)
	if err != nil {
		return err
	}

	if spec.Join != nil {
		if spec.Join.On == nil {
			return NewInvalidOperationError("join requires an ON predicate")
		}
		if err := validatePredicate(spec.Join.On, scopes, schemas); err != nil {
			return fmt.Errorf("join ON: %w", err)
		}
	}

	if spec.Where != nil {
		if err := validatePredicate(spec.Where, scopes, schemas); err != nil {
			return fmt.Errorf("where: %w", err)
		}
	}

	if err := validateSelect(spec, scopes, schemas); err != nil {
		return err
	}

	for _, f := range spec.GroupBy {
		if _, err := fieldKind(f, scopes); err != nil {
			return fmt.Errorf("group by: %w", err)
		}
	}

	for _, o := range spec.OrderBy {
		k, err := fieldKind(o.Field, scopes)
		if err != nil {
			return fmt.Errorf("order by: %w", err)
		}
		if k == ir.KindBool {
			return NewTypeMismatchError("cannot order by a boolean field", o.Field.Name)
		}
	}

	if spec.Offset < 0 {
		return NewInvalidOperationError("offset must not be negative")
	}

	return nil
}

// buildScopes resolves the spec's source references into alias → schema
// bindings, rejecting unknown tables and duplicate aliases.
func buildScopes(spec *Spec, schemas map[string]Schema) (map[string]Schema, error) {
	scopes := make(map[string]Schema)
	for _, ref := range spec.Aliases() {
		if ref.Alias == "" {
			return nil, NewInvalidOperationError(fmt.Sprintf("source %q requires an alias", ref.Table))
		}
		schema, known := schemas[ref.Table]
		if !known {
			return nil, NewInvalidOperationError(fmt.Sprintf("unknown table %q", ref.Table))
		}
		if _, dup := scopes[ref.Alias]; dup {
			return nil, NewInvalidOperationError(fmt.Sprintf("duplicate alias %q", ref.Alias))
		}
		scopes[ref.Alias] = schema
	}
	return scopes, nil
}

// validateSelect enforces the projection rules:
//   - with GROUP BY, non-aggregate projections must be grouping fields
//   - without GROUP BY, aggregates and row-level projections do not mix
func validateSelect(spec *Spec, scopes map[string]Schema, schemas map[string]Schema) error {
	hasAgg := spec.HasAggregates()

	if len(spec.GroupBy) > 0 && len(spec.Select) == 0 {
		return NewInvalidOperationError("group by requires an explicit projection list")
	}

	for _, p := range spec.Select {
		if err := validateExpr(p.Expr, scopes, schemas); err != nil {
			return fmt.Errorf("select: %w", err)
		}

		_, isAgg := p.Expr.(Aggregate)
		switch {
		case len(spec.GroupBy) > 0 && !isAgg:
			f, isField := p.Expr.(Field)
			if !isField || !containsField(spec.GroupBy, f) {
				return NewInvalidOperationError("non-aggregate projection must be a grouping field")
			}
		case len(spec.GroupBy) == 0 && hasAgg && !isAgg:
			return NewInvalidOperationError("cannot mix aggregate and row-level projections without group by")
		}
	}

	return nil
}

func containsField(fields []Field, f Field) bool {
	for _, g := range fields {
		if g == f {
			return true
		}
	}
	return false
}

// validatePredicate walks a predicate tree. Exhaustive over the sealed
// Predicate interface.
func validatePredicate(p Predicate, scopes map[string]Schema, schemas map[string]Schema) error {
	switch pred := p.(type) {
	case Compare:
		if pred.Left == nil || pred.Right == nil {
			return NewInvalidOperationError("comparison requires both operands")
		}
		if err := validateExpr(pred.Left, scopes, schemas); err != nil {
			return err
		}
		return validateExpr(pred.Right, scopes, schemas)

	case In:
		if err := validateExpr(pred.Expr, scopes, schemas); err != nil {
			return err
		}
		if (len(pred.Values) == 0) == (pred.Sub == nil) {
			return NewInvalidOperationError("in-predicate requires either a value set or a subquery")
		}
		if pred.Sub != nil {
			return validateExpr(*pred.Sub, scopes, schemas)
		}
		return nil

	case Between:
		if ir.IsNull(pred.Lo) || ir.IsNull(pred.Hi) {
			return NewInvalidOperationError("between bounds must not be null")
		}
		if err := validateExpr(pred.Expr, scopes, schemas); err != nil {
			return err
		}
		k, err := exprKind(pred.Expr, scopes)
		if err != nil {
			return err
		}
		if ir.NumericKind(k) != ir.Numeric(pred.Lo) || ir.NumericKind(k) != ir.Numeric(pred.Hi) {
			return NewTypeMismatchError("between bounds incompatible with operand kind", "")
		}
		return nil

	case Match:
		if err := validateExpr(pred.Expr, scopes, schemas); err != nil {
			return err
		}
		k, err := exprKind(pred.Expr, scopes)
		if err != nil {
			return err
		}
		if k != ir.KindString {
			return NewTypeMismatchError("string match requires a string operand", "")
		}
		return nil

	case IsNull:
		return validateExpr(pred.Expr, scopes, schemas)

	case Not:
		if pred.P == nil {
			return NewInvalidOperationError("negation requires a predicate")
		}
		return validatePredicate(pred.P, scopes, schemas)

	case And:
		for _, sub := range pred.Ps {
			if err := validatePredicate(sub, scopes, schemas); err != nil {
				return err
			}
		}
		return nil

	default:
		return NewInvalidOperationError(fmt.Sprintf("unknown predicate type %T", p))
	}
}

// validateExpr walks an expression tree. Exhaustive over the sealed Expr
// interface.
func validateExpr(e Expr, scopes map[string]Schema, schemas map[string]Schema) error {
	switch expr := e.(type) {
	case Field:
		_, err := fieldKind(expr, scopes)
		return err

	case Const:
		return nil

	case Concat:
		if len(expr.Parts) == 0 {
			return NewInvalidOperationError("concat requires at least one part")
		}
		for _, part := range expr.Parts {
			if err := validateExpr(part, scopes, schemas); err != nil {
				return err
			}
		}
		return nil

	case Case:
		if expr.Input == nil {
			return NewInvalidOperationError("case requires an input expression")
		}
		if len(expr.Branches) == 0 {
			return NewInvalidOperationError("case requires at least one when/then branch")
		}
		return validateExpr(expr.Input, scopes, schemas)

	case Aggregate:
		return validateAggregate(expr, scopes, schemas)

	case Subquery:
		return validateSubquery(expr, schemas)

	default:
		return NewInvalidOperationError(fmt.Sprintf("unknown expression type %T", e))
	}
}

// validateAggregate checks the aggregate's argument kind: Sum and Avg need
// numbers, Max and Min need an ordered kind. Surfaced as TYPE_MISMATCH at
// construction time per the error-handling contract.
func validateAggregate(agg Aggregate, scopes map[string]Schema, schemas map[string]Schema) error {
	if agg.Fn == AggCount {
		if agg.Arg != nil {
			return validateExpr(agg.Arg, scopes, schemas)
		}
		return nil
	}
	if agg.Arg == nil {
		return NewInvalidOperationError(fmt.Sprintf("%s requires an argument", agg.Fn))
	}
	if err := validateExpr(agg.Arg, scopes, schemas); err != nil {
		return err
	}

	k, err := exprKind(agg.Arg, scopes)
	if err != nil {
		return err
	}
	switch agg.Fn {
	case AggSum, AggAvg:
		if !ir.NumericKind(k) {
			return NewTypeMismatchError(
				fmt.Sprintf("%s requires a numeric argument, got %s", agg.Fn, k), fieldName(agg.Arg))
		}
	case AggMax, AggMin:
		if k == ir.KindBool {
			return NewTypeMismatchError(
				fmt.Sprintf("%s requires an ordered argument, got %s", agg.Fn, k), fieldName(agg.Arg))
		}
	}
	return nil
}

// validateSubquery validates a nested query against the same table schemas
// and requires exactly one projection so the result reads as a scalar or a
// one-column set.
func validateSubquery(sub Subquery, schemas map[string]Schema) error {
	if sub.Spec == nil {
		return NewInvalidOperationError("subquery requires a spec")
	}
	if len(sub.Spec.Select) != 1 {
		return NewInvalidOperationError("subquery must produce exactly one projection")
	}
	if err := Validate(sub.Spec, schemas); err != nil {
		return fmt.Errorf("subquery: %w", err)
	}
	return nil
}

// fieldKind resolves a field reference to its schema kind.
func fieldKind(f Field, scopes map[string]Schema) (ir.Kind, error) {
	schema, known := scopes[f.Alias]
	if !known {
		return ir.KindNull, NewInvalidOperationError(fmt.Sprintf("unknown alias %q", f.Alias))
	}
	k, found := schema[f.Name]
	if !found {
		return ir.KindNull, NewInvalidOperationError(
			fmt.Sprintf("field %q does not exist on source %q", f.Name, f.Alias))
	}
	return k, nil
}

// exprKind infers the result kind of an expression for construction-time
// type checks.
func exprKind(e Expr, scopes map[string]Schema) (ir.Kind, error) {
	switch expr := e.(type) {
	case Field:
		return fieldKind(expr, scopes)
	case Const:
		return ir.KindOf(expr.Value), nil
	case Concat:
		return ir.KindString, nil
	case Case:
		for _, b := range expr.Branches {
			if !ir.IsNull(b.Then) {
				return ir.KindOf(b.Then), nil
			}
		}
		return ir.KindOf(expr.Otherwise), nil
	case Aggregate:
		switch expr.Fn {
		case AggCount:
			return ir.KindInt, nil
		case AggAvg:
			return ir.KindFloat, nil
		default:
			if expr.Arg == nil {
				return ir.KindNull, nil
			}
			return exprKind(expr.Arg, scopes)
		}
	case Subquery:
		if expr.Spec == nil || len(expr.Spec.Select) != 1 {
			return ir.KindNull, nil
		}
		// Nested scope: the subquery's own aliases, not the outer ones.
		return ir.KindNull, nil
	default:
		return ir.KindNull, nil
	}
}

func fieldName(e Expr) string {
	if f, isField := e.(Field); isField {
		return f.Name
	}
	return ""
}
