package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

// testRec is a minimal entity for table tests.
type testRec struct {
	id   int64
	name string
	age  int64
}

func (r *testRec) ID() int64          { return r.id }
func (r *testRec) AssignID(id int64)  { r.id = id }
func (r *testRec) Fields() ir.Row {
	return ir.Row{
		"id":   ir.NewInt(r.id),
		"name": ir.NewString(r.name),
		"age":  ir.NewInt(r.age),
	}
}

func testRecSchema() query.Schema {
	return query.Schema{"id": ir.KindInt, "name": ir.KindString, "age": ir.KindInt}
}

func TestTable_InsertAssignsSequentialIDs(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())

	first, err := tbl.Insert(&testRec{name: "a"})
	require.NoError(t, err)
	second, err := tbl.Insert(&testRec{name: "b"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestTable_InsertRejectsAssignedID(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())

	rec := &testRec{name: "a"}
	_, err := tbl.Insert(rec)
	require.NoError(t, err)

	_, err = tbl.Insert(rec)
	require.Error(t, err)
	assert.True(t, query.IsInvalidOperation(err))
}

func TestTable_ScanPreservesInsertionOrder(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())
	names := []string{"c", "a", "b"}
	for _, n := range names {
		_, err := tbl.Insert(&testRec{name: n})
		require.NoError(t, err)
	}

	scanned := tbl.Scan()
	require.Len(t, scanned, 3)
	for i, rec := range scanned {
		assert.Equal(t, names[i], rec.name)
	}
}

func TestTable_ScanEmptyIsNotNil(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())
	assert.NotNil(t, tbl.Scan())
	assert.Empty(t, tbl.Scan())
}

func TestTable_ScanIsSnapshot(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())
	_, err := tbl.Insert(&testRec{name: "a"})
	require.NoError(t, err)

	scanned := tbl.Scan()
	_, err = tbl.Insert(&testRec{name: "b"})
	require.NoError(t, err)

	// The earlier scan does not observe the later insert.
	assert.Len(t, scanned, 1)
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_FindByID(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())
	id, err := tbl.Insert(&testRec{name: "a", age: 10})
	require.NoError(t, err)

	rec, found := tbl.FindByID(id)
	require.True(t, found)
	assert.Equal(t, "a", rec.name)

	_, found = tbl.FindByID(99)
	assert.False(t, found)
}

func TestTable_RowsExposeFields(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())
	_, err := tbl.Insert(&testRec{name: "a", age: 10})
	require.NoError(t, err)

	rows := tbl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, ir.NewInt(1), rows[0].Get("id"))
	assert.Equal(t, ir.NewString("a"), rows[0].Get("name"))
	assert.Equal(t, ir.NewInt(10), rows[0].Get("age"))
}

func TestTable_ReadYourWrites(t *testing.T) {
	// A row inserted earlier in the same unit of work is visible to a later
	// scan, before any flush boundary.
	tbl := NewTable[*testRec]("recs", testRecSchema())
	_, err := tbl.Insert(&testRec{name: "fresh"})
	require.NoError(t, err)

	scanned := tbl.Scan()
	require.Len(t, scanned, 1)
	assert.Equal(t, "fresh", scanned[0].name)
}

func TestTable_ConcurrentReadersDuringWrites(t *testing.T) {
	tbl := NewTable[*testRec]("recs", testRecSchema())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, _ = tbl.Insert(&testRec{name: "x"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			scanned := tbl.Scan()
			assert.LessOrEqual(t, len(scanned), 100)
		}
	}()
	wg.Wait()

	assert.Equal(t, 100, tbl.Len())
}
