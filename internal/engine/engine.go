package engine

import (
	"fmt"

	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// Source is one queryable row set: a named table with a schema and an
// ordered scan. Implemented structurally by store.Table.
type Source interface {
	Name() string
	Schema() query.Schema
	Rows() []ir.Row
}

// Engine evaluates query specs against registered sources.
type Engine struct {
	sources map[string]Source
}

// New creates an engine with no sources.
func New() *Engine {
	return &Engine{sources: make(map[string]Source)}
}

// Register makes a source queryable under its table name.
// Re-registering a name replaces the previous source.
func (e *Engine) Register(src Source) {
	e.sources[src.Name()] = src
}

// Schemas returns the registered table schemas, as consumed by validation.
func (e *Engine) Schemas() map[string]query.Schema {
	schemas := make(map[string]query.Schema, len(e.sources))
	for name, src := range e.sources {
		schemas[name] = src.Schema()
	}
	return schemas
}

// ResultRow is one row-level result: the participating source rows keyed by
// alias. The absent side of an unmatched left join has no entry.
type ResultRow struct {
	rows map[string]ir.Row
}

// Row returns the source row bound to an alias; ok is false for the absent
// side of an unmatched left join.
func (r ResultRow) Row(alias string) (ir.Row, bool) {
	row, found := r.rows[alias]
	return row, found
}

// ID returns the id field of the row bound to an alias, when present.
func (r ResultRow) ID(alias string) (int64, bool) {
	row, found := r.rows[alias]
	if !found {
		return 0, false
	}
	id, isInt := row.Get("id").(ir.Int)
	if !isInt {
		return 0, false
	}
	return int64(id), true
}

// FetchRows evaluates a row-level spec: filter, order, page. The spec must
// not carry projections or grouping; those produce tuples via Fetch.
func (e *Engine) FetchRows(spec *query.Spec) ([]ResultRow, error) {
	if len(spec.Select) > 0 || len(spec.GroupBy) > 0 {
		return nil, query.NewInvalidOperationError("row fetch cannot carry projections or grouping")
	}
	retained, err := e.retained(spec)
	if err != nil {
		return nil, err
	}
	if err := e.sortBindings(retained, spec.OrderBy); err != nil {
		return nil, err
	}
	paged := page(retained, spec.Offset, spec.Limit)

	out := make([]ResultRow, len(paged))
	for i, b := range paged {
		out[i] = ResultRow{rows: b}
	}
	return out, nil
}

// FetchOneRow evaluates a row-level spec expecting at most one result.
// An empty result set returns ok=false, not an error; more than one row
// fails with NON_UNIQUE_RESULT.
func (e *Engine) FetchOneRow(spec *query.Spec) (ResultRow, bool, error) {
	rows, err := e.FetchRows(spec)
	if err != nil {
		return ResultRow{}, false, err
	}
	switch len(rows) {
	case 0:
		return ResultRow{}, false, nil
	case 1:
		return rows[0], true, nil
	default:
		return ResultRow{}, false, NewNonUniqueResultError(len(rows))
	}
}

// FetchFirstRow evaluates a row-level spec and returns its first result,
// regardless of how many rows matched.
func (e *Engine) FetchFirstRow(spec *query.Spec) (ResultRow, bool, error) {
	limited := *spec
	limited.Limit = 1
	rows, err := e.FetchRows(&limited)
	if err != nil {
		return ResultRow{}, false, err
	}
	if len(rows) == 0 {
		return ResultRow{}, false, nil
	}
	return rows[0], true, nil
}

// Fetch evaluates a spec with projections, producing tuples: grouped
// aggregates, a lone aggregate row, or per-row projections.
func (e *Engine) Fetch(spec *query.Spec) ([]Tuple, error) {
	if len(spec.Select) == 0 {
		return nil, query.NewInvalidOperationError("tuple fetch requires a projection list")
	}
	retained, err := e.retained(spec)
	if err != nil {
		return nil, err
	}

	if len(spec.GroupBy) > 0 {
		if len(spec.OrderBy) > 0 {
			return nil, query.NewInvalidOperationError("ordering grouped results is not supported")
		}
		return e.groupTuples(spec, retained)
	}
	if spec.HasAggregates() {
		tuple, err := e.aggregateTuple(spec, retained)
		if err != nil {
			return nil, err
		}
		return []Tuple{tuple}, nil
	}

	if err := e.sortBindings(retained, spec.OrderBy); err != nil {
		return nil, err
	}
	paged := page(retained, spec.Offset, spec.Limit)

	tuples := make([]Tuple, 0, len(paged))
	for _, b := range paged {
		tuple, err := e.projectTuple(spec.Select, b)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, tuple)
	}
	return tuples, nil
}

// FetchOne evaluates a projection spec expecting at most one tuple.
func (e *Engine) FetchOne(spec *query.Spec) (Tuple, bool, error) {
	tuples, err := e.Fetch(spec)
	if err != nil {
		return Tuple{}, false, err
	}
	switch len(tuples) {
	case 0:
		return Tuple{}, false, nil
	case 1:
		return tuples[0], true, nil
	default:
		return Tuple{}, false, NewNonUniqueResultError(len(tuples))
	}
}

// FetchFirst evaluates a projection spec and returns its first tuple.
func (e *Engine) FetchFirst(spec *query.Spec) (Tuple, bool, error) {
	limited := *spec
	limited.Limit = 1
	tuples, err := e.Fetch(&limited)
	if err != nil {
		return Tuple{}, false, err
	}
	if len(tuples) == 0 {
		return Tuple{}, false, nil
	}
	return tuples[0], true, nil
}

// Count returns the retained-row total, independent of the spec's paging.
func (e *Engine) Count(spec *query.Spec) (int64, error) {
	retained, err := e.retained(spec)
	if err != nil {
		return 0, err
	}
	return int64(len(retained)), nil
}

// FetchRowsWithTotal evaluates a row-level spec and additionally reports
// the pre-paging total, for page-count consumers.
func (e *Engine) FetchRowsWithTotal(spec *query.Spec) ([]ResultRow, int64, error) {
	total, err := e.Count(spec)
	if err != nil {
		return nil, 0, err
	}
	rows, err := e.FetchRows(spec)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// retained validates the spec, builds the joined row set, and applies WHERE.
// Steps 1-2 of the pipeline, shared by every fetch variant.
func (e *Engine) retained(spec *query.Spec) ([]binding, error) {
	if err := query.Validate(spec, e.Schemas()); err != nil {
		return nil, err
	}
	rows, err := e.buildRowSet(spec)
	if err != nil {
		return nil, err
	}
	if spec.Where == nil {
		return rows, nil
	}

	retained := rows[:0:0]
	for _, b := range rows {
		verdict, err := e.evalPredicate(spec.Where, b)
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		if verdict == tvTrue {
			retained = append(retained, b)
		}
	}
	return retained, nil
}

// page applies offset/limit. An offset beyond the row count yields an empty
// result, never an error; limit < 0 is unbounded.
func page(rows []binding, offset, limit int64) []binding {
	if offset >= int64(len(rows)) {
		return nil
	}
	rows = rows[offset:]
	if limit >= 0 && limit < int64(len(rows)) {
		rows = rows[:limit]
	}
	return rows
}
