package harness

import (
	"fmt"
	"strings"

	"github.com/tobin-dev/relq/internal/engine"
	"github.com/tobin-dev/relq/internal/entity"
	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
	"github.com/tobin-dev/relq/internal/session"
)

// Result holds the evaluated output of a scenario. Row queries fill Rows
// with alias-qualified field maps; projected queries fill Tuples with
// label-keyed maps. Values are native Go scalars, nil for null.
type Result struct {
	Rows   []map[string]any
	Tuples []map[string]any
}

// Run builds a session from the scenario's dataset, compiles its query,
// and evaluates it.
func Run(scenario *Scenario) (*Result, error) {
	s, err := buildSession(&scenario.Dataset)
	if err != nil {
		return nil, err
	}

	spec, err := CompileQuery(&scenario.Query)
	if err != nil {
		return nil, err
	}

	if len(spec.Select) > 0 {
		tuples, err := s.FetchTuples(spec)
		if err != nil {
			return nil, err
		}
		return &Result{Tuples: renderTuples(tuples)}, nil
	}

	rows, err := s.Engine().FetchRows(spec)
	if err != nil {
		return nil, err
	}
	return &Result{Rows: renderRows(rows, spec)}, nil
}

func buildSession(ds *DatasetSpec) (*session.Session, error) {
	s := session.New()

	teams := make(map[string]*entity.Team, len(ds.Teams))
	for _, ts := range ds.Teams {
		team := entity.NewTeam(ts.Name)
		if err := s.Persist(team); err != nil {
			return nil, err
		}
		teams[ts.Name] = team
	}

	for i, ms := range ds.Members {
		var age int64
		if ms.Age != nil {
			age = *ms.Age
		}
		var m *entity.Member
		if ms.Name != nil {
			m = entity.NewMemberWithAge(*ms.Name, age)
		} else {
			m = entity.NewUnnamedMember(age)
		}
		if ms.Team != nil {
			team, known := teams[*ms.Team]
			if !known {
				return nil, fmt.Errorf("members[%d] references unknown team %q", i, *ms.Team)
			}
			if err := m.ChangeTeam(team); err != nil {
				return nil, err
			}
		}
		if err := s.Persist(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// CompileQuery translates a declarative query into an executable spec.
// The root is the member table under alias "m"; a join adds the team table
// under alias "t".
func CompileQuery(q *QuerySpec) (*query.Spec, error) {
	b := query.From(session.MembersTable, "m")

	if q.Join != nil {
		on, err := compileJoinOn(q.Join)
		if err != nil {
			return nil, err
		}
		switch q.Join.Kind {
		case "inner":
			b.InnerJoin(session.TeamsTable, "t", on)
		case "left":
			b.LeftJoin(session.TeamsTable, "t", on)
		default:
			return nil, fmt.Errorf("unknown join kind %q", q.Join.Kind)
		}
	}

	for i := range q.Where {
		p, err := compileWhere(&q.Where[i])
		if err != nil {
			return nil, err
		}
		b.Where(p)
	}

	for i := range q.Select {
		proj, err := compileSelect(&q.Select[i])
		if err != nil {
			return nil, err
		}
		b.Select(proj)
	}

	for _, g := range q.GroupBy {
		f, err := parseField(g)
		if err != nil {
			return nil, err
		}
		b.GroupBy(f)
	}

	for i := range q.OrderBy {
		o, err := compileOrder(&q.OrderBy[i])
		if err != nil {
			return nil, err
		}
		b.OrderBy(o)
	}

	b.Offset(q.Offset)
	if q.Limit != nil {
		b.Limit(*q.Limit)
	}
	return b.Spec(), nil
}

func compileJoinOn(j *JoinSpec) (query.Predicate, error) {
	left, err := parseField(j.On.Left)
	if err != nil {
		return nil, err
	}
	right, err := parseField(j.On.Right)
	if err != nil {
		return nil, err
	}
	on := []query.Predicate{query.Eq(left, right)}
	for i := range j.Where {
		p, err := compileWhere(&j.Where[i])
		if err != nil {
			return nil, err
		}
		on = append(on, p)
	}
	if len(on) == 1 {
		return on[0], nil
	}
	return query.And{Ps: on}, nil
}

func compileWhere(w *WhereSpec) (query.Predicate, error) {
	f, err := parseField(w.Field)
	if err != nil {
		return nil, err
	}

	switch w.Op {
	case "eq", "ne", "lt", "loe", "gt", "goe":
		return compileCompare(w.Op, f, ir.FromNative(w.Value)), nil
	case "contains", "prefix", "suffix":
		text, isStr := w.Value.(string)
		if !isStr {
			return nil, fmt.Errorf("%s filter on %s requires a string value", w.Op, w.Field)
		}
		return query.Match{Expr: f, Mode: matchMode(w.Op), Text: text}, nil
	case "is_null":
		return query.IsNull{Expr: f}, nil
	case "not_null":
		return query.IsNull{Expr: f, Negate: true}, nil
	case "in", "not_in":
		list, isList := w.Value.([]any)
		if !isList {
			return nil, fmt.Errorf("%s filter on %s requires a list value", w.Op, w.Field)
		}
		values := make([]ir.Value, len(list))
		for i, v := range list {
			values[i] = ir.FromNative(v)
		}
		return query.In{Expr: f, Values: values, Negate: w.Op == "not_in"}, nil
	case "between":
		bounds, isList := w.Value.([]any)
		if !isList || len(bounds) != 2 {
			return nil, fmt.Errorf("between filter on %s requires a two-element list", w.Field)
		}
		return query.Between{Expr: f, Lo: ir.FromNative(bounds[0]), Hi: ir.FromNative(bounds[1])}, nil
	default:
		return nil, fmt.Errorf("unknown filter op %q", w.Op)
	}
}

func compileCompare(op string, f query.Field, v ir.Value) query.Predicate {
	c := query.Val(v)
	switch op {
	case "eq":
		return query.Eq(f, c)
	case "ne":
		return query.Ne(f, c)
	case "lt":
		return query.Lt(f, c)
	case "loe":
		return query.Loe(f, c)
	case "gt":
		return query.Gt(f, c)
	default:
		return query.Goe(f, c)
	}
}

func matchMode(op string) query.MatchMode {
	switch op {
	case "prefix":
		return query.MatchPrefix
	case "suffix":
		return query.MatchSuffix
	default:
		return query.MatchContains
	}
}

func compileSelect(sel *SelectSpec) (query.Projection, error) {
	if sel.Agg == "" {
		f, err := parseField(sel.Field)
		if err != nil {
			return query.Projection{}, err
		}
		return query.P(sel.Label, f), nil
	}

	if sel.Agg == "count" && sel.Field == "" {
		return query.P(sel.Label, query.Count()), nil
	}
	f, err := parseField(sel.Field)
	if err != nil {
		return query.Projection{}, err
	}
	switch sel.Agg {
	case "count":
		return query.P(sel.Label, query.Aggregate{Fn: query.AggCount, Arg: f}), nil
	case "sum":
		return query.P(sel.Label, query.Sum(f)), nil
	case "avg":
		return query.P(sel.Label, query.Avg(f)), nil
	case "max":
		return query.P(sel.Label, query.Max(f)), nil
	case "min":
		return query.P(sel.Label, query.Min(f)), nil
	default:
		return query.Projection{}, fmt.Errorf("unknown aggregate %q", sel.Agg)
	}
}

func compileOrder(o *OrderSpec) (query.Order, error) {
	f, err := parseField(o.Field)
	if err != nil {
		return query.Order{}, err
	}
	order := query.Asc(f)
	if o.Desc {
		order = query.Desc(f)
	}
	switch o.Nulls {
	case "first":
		order = order.NullsFirst()
	case "last":
		order = order.NullsLast()
	}
	return order, nil
}

// parseField splits an alias-qualified field like "m.age".
func parseField(s string) (query.Field, error) {
	alias, name, found := strings.Cut(s, ".")
	if !found || alias == "" || name == "" {
		return query.Field{}, fmt.Errorf("field %q must be alias-qualified, like m.age", s)
	}
	return query.F(alias, name), nil
}

func renderRows(rows []engine.ResultRow, spec *query.Spec) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		flat := make(map[string]any)
		for _, ref := range spec.Aliases() {
			row, present := r.Row(ref.Alias)
			if !present {
				continue
			}
			for _, k := range row.SortedKeys() {
				flat[ref.Alias+"."+k] = ir.ToNative(row.Get(k))
			}
		}
		out[i] = flat
	}
	return out
}

func renderTuples(tuples []engine.Tuple) []map[string]any {
	out := make([]map[string]any, len(tuples))
	for i, t := range tuples {
		m := make(map[string]any, t.Len())
		for _, label := range t.Labels() {
			m[label] = ir.ToNative(t.Get(label))
		}
		out[i] = m
	}
	return out
}
