package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobin-dev/relq/internal/ir"
)

func reviveTestRec(fields ir.Row) (*testRec, error) {
	rec := &testRec{}
	if v, isStr := fields.Get("name").(ir.String); isStr {
		rec.name = string(v)
	}
	if v, isInt := fields.Get("age").(ir.Int); isInt {
		rec.age = int64(v)
	}
	return rec, nil
}

func TestSnapshot_RoundTrip(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())
	_, err := tbl.Insert(&testRec{name: "a", age: 10})
	require.NoError(t, err)
	_, err = tbl.Insert(&testRec{name: "b", age: 20})
	require.NoError(t, err)

	data, err := tbl.Snapshot()
	require.NoError(t, err)

	restored := NewTable[*testRec]("recs", testRecSchema())
	require.NoError(t, restored.Restore(data, reviveTestRec))

	require.Equal(t, 2, restored.Len())
	scanned := restored.Scan()
	assert.Equal(t, int64(1), scanned[0].ID())
	assert.Equal(t, "a", scanned[0].name)
	assert.Equal(t, int64(10), scanned[0].age)
	assert.Equal(t, int64(2), scanned[1].ID())
	assert.Equal(t, "b", scanned[1].name)

	// The id counter continues where the source table left off.
	next, err := restored.Insert(&testRec{name: "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), next)
}

func TestSnapshot_RestoreReplacesContents(t *testing.T) {
	source := NewTable[*testRec]("recs", testRecSchema())
	_, err := source.Insert(&testRec{name: "only"})
	require.NoError(t, err)
	data, err := source.Snapshot()
	require.NoError(t, err)

	target := NewTable[*testRec]("recs", testRecSchema())
	_, err = target.Insert(&testRec{name: "stale"})
	require.NoError(t, err)

	require.NoError(t, target.Restore(data, reviveTestRec))
	require.Equal(t, 1, target.Len())
	assert.Equal(t, "only", target.Scan()[0].name)
}

func TestSnapshot_RestoreRejectsWrongTable(t *testing.T) {
	source := NewTable[*testRec]("recs", testRecSchema())
	data, err := source.Snapshot()
	require.NoError(t, err)

	other := NewTable[*testRec]("others", testRecSchema())
	err = other.Restore(data, reviveTestRec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recs")
}

func TestSnapshot_RestoreRejectsGarbage(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())
	err := tbl.Restore([]byte{0xc1, 0x00}, reviveTestRec)
	require.Error(t, err)
}
