package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tobin-dev/relq/internal/ir"
)

// tableSnapshot is the wire form of a serialized table.
type tableSnapshot struct {
	Name   string        `msgpack:"name"`
	NextID int64         `msgpack:"next_id"`
	Rows   []snapshotRow `msgpack:"rows"`
}

type snapshotRow struct {
	ID     int64          `msgpack:"id"`
	Fields map[string]any `msgpack:"fields"`
}

// Snapshot serializes the table's rows and id counter as msgpack.
func (t *Table[T]) Snapshot() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := tableSnapshot{
		Name:   t.name,
		NextID: t.nextID,
		Rows:   make([]snapshotRow, len(t.rows)),
	}
	for i, e := range t.rows {
		fields := e.Fields()
		native := make(map[string]any, len(fields))
		for _, k := range fields.SortedKeys() {
			native[k] = ir.ToNative(fields.Get(k))
		}
		snap.Rows[i] = snapshotRow{ID: e.ID(), Fields: native}
	}

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot of %q: %w", t.name, err)
	}
	return data, nil
}

// Restore replaces the table's contents with a previously taken snapshot.
// Entities are rebuilt through revive, which receives each row's fields
// (without the id; identity is reassigned from the snapshot).
//
// Restoring a snapshot taken from a differently named table is rejected.
func (t *Table[T]) Restore(data []byte, revive func(ir.Row) (T, error)) error {
	var snap tableSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Name != t.name {
		return fmt.Errorf("snapshot of table %q cannot restore into %q", snap.Name, t.name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]T, 0, len(snap.Rows))
	index := make(map[int64]int, len(snap.Rows))
	for i, sr := range snap.Rows {
		fields := make(ir.Row, len(sr.Fields))
		for k, v := range sr.Fields {
			fields[k] = ir.FromNative(v)
		}
		e, err := revive(fields)
		if err != nil {
			return fmt.Errorf("revive row %d: %w", i, err)
		}
		e.AssignID(sr.ID)
		index[sr.ID] = i
		rows = append(rows, e)
	}

	t.rows = rows
	t.index = index
	t.nextID = snap.NextID
	return nil
}
