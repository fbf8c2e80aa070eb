package store

import (
	"fmt"
	"sync"

	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// Entity is the contract a stored type fulfills: observable identity,
// one-time identity assignment, and a flat field view for the query engine.
type Entity interface {
	// ID returns the assigned identity, or 0 before the first insert.
	ID() int64

	// AssignID sets the identity. Called exactly once, by Insert.
	AssignID(id int64)

	// Fields returns the entity's current field values as a flat row.
	Fields() ir.Row
}

// Table is an append-only, ordered, in-memory collection of one entity kind.
type Table[T Entity] struct {
	mu     sync.RWMutex
	name   string
	schema query.Schema
	nextID int64
	rows   []T
	index  map[int64]int // id → position in rows
}

// NewTable creates an empty table with the given name and field schema.
func NewTable[T Entity](name string, schema query.Schema) *Table[T] {
	return &Table[T]{
		name:   name,
		schema: schema,
		nextID: 1,
		index:  make(map[int64]int),
	}
}

// Name returns the table name used in query source references.
func (t *Table[T]) Name() string {
	return t.name
}

// Schema returns the table's field schema.
func (t *Table[T]) Schema() query.Schema {
	return t.schema
}

// Insert assigns the next sequential id to the entity, appends it in order,
// and returns the id. An entity that already carries an id was inserted
// before; identity is immutable, so a second insert is rejected.
func (t *Table[T]) Insert(e T) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e.ID() != 0 {
		return 0, query.NewInvalidOperationError(
			fmt.Sprintf("entity already inserted into %q with id %d", t.name, e.ID()))
	}

	id := t.nextID
	t.nextID++
	e.AssignID(id)

	t.index[id] = len(t.rows)
	t.rows = append(t.rows, e)
	return id, nil
}

// Scan returns the full ordered sequence as inserted. The returned slice is
// a copy; it is finite and restartable, and never nil.
func (t *Table[T]) Scan() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

// FindByID returns the entity with the given id.
func (t *Table[T]) FindByID(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pos, found := t.index[id]
	if !found {
		var zero T
		return zero, false
	}
	return t.rows[pos], true
}

// Len returns the number of stored entities.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Rows returns the entities' field views in insertion order.
// Together with Name and Schema this satisfies the engine's Source contract.
func (t *Table[T]) Rows() []ir.Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]ir.Row, len(t.rows))
	for i, e := range t.rows {
		out[i] = e.Fields()
	}
	return out
}
