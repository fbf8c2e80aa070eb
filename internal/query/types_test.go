package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobin-dev/relq/internal/ir"
)

func TestCompare_ImplementsPredicate(t *testing.T) {
	var p Predicate = Compare{Op: OpEq, Left: F("m", "age"), Right: Num(10)}
	assert.NotNil(t, p)

	// Sealed interface - can type switch exhaustively
	switch p.(type) {
	case Compare:
		// Expected
	case And:
		t.Fatal("unexpected type")
	}
}

func TestAnd_EmptyIsVacuous(t *testing.T) {
	p := And{}
	assert.Empty(t, p.Ps)
}

func TestField_ImplementsExpr(t *testing.T) {
	var e Expr = F("m", "user_name")
	assert.NotNil(t, e)
	assert.Equal(t, Field{Alias: "m", Name: "user_name"}, e)
}

func TestOrder_NullPlacementOverrides(t *testing.T) {
	o := Asc(F("m", "user_name"))
	assert.Equal(t, NullsDefault, o.Nulls)

	assert.Equal(t, NullsLast, o.NullsLast().Nulls)
	assert.Equal(t, NullsFirst, o.NullsFirst().Nulls)
	// The receiver is unchanged - Order is a value type.
	assert.Equal(t, NullsDefault, o.Nulls)
}

func TestSpec_Aliases(t *testing.T) {
	spec := From("members", "m").
		LeftJoin("teams", "t", Eq(F("m", "team_id"), F("t", "id"))).
		Spec()

	refs := spec.Aliases()
	assert.Len(t, refs, 2)
	assert.Equal(t, SourceRef{Table: "members", Alias: "m"}, refs[0])
	assert.Equal(t, SourceRef{Table: "teams", Alias: "t"}, refs[1])
}

func TestSpec_AliasesWithCross(t *testing.T) {
	spec := From("members", "m").Cross("teams", "t").Spec()

	refs := spec.Aliases()
	assert.Len(t, refs, 2)
	assert.Equal(t, "t", refs[1].Alias)
}

func TestSpec_HasAggregates(t *testing.T) {
	withAgg := From("members", "m").Select(P("count", Count())).Spec()
	assert.True(t, withAgg.HasAggregates())

	without := From("members", "m").Select(P("name", F("m", "user_name"))).Spec()
	assert.False(t, without.HasAggregates())
}

func TestBuilder_DefaultLimitIsUnbounded(t *testing.T) {
	spec := From("members", "m").Spec()
	assert.Equal(t, int64(-1), spec.Limit)
	assert.Zero(t, spec.Offset)
}

func TestBuilder_WhereConjoins(t *testing.T) {
	spec := From("members", "m").
		Where(Eq(F("m", "user_name"), Str("member1"))).
		Where(Eq(F("m", "age"), Num(10))).
		Spec()

	and, isAnd := spec.Where.(And)
	assert.True(t, isAnd)
	assert.Len(t, and.Ps, 2)
}

func TestBuilder_SingleWhereStaysFlat(t *testing.T) {
	spec := From("members", "m").
		Where(Eq(F("m", "age"), Num(10))).
		Spec()

	_, isCompare := spec.Where.(Compare)
	assert.True(t, isCompare)
}

func TestBuilder_ListsAccumulate(t *testing.T) {
	spec := From("members", "m").
		Select(P("name", F("m", "user_name"))).
		Select(P("count", Count())).
		Select(P("avg_age", Avg(F("m", "age")))).
		GroupBy(F("m", "user_name")).
		GroupBy(F("m", "team_id")).
		OrderBy(Asc(F("m", "user_name"))).
		OrderBy(Desc(F("m", "age"))).
		Spec()

	require.Len(t, spec.Select, 3)
	assert.Equal(t, "name", spec.Select[0].Label)
	assert.Equal(t, "count", spec.Select[1].Label)
	assert.Equal(t, "avg_age", spec.Select[2].Label)
	assert.Len(t, spec.GroupBy, 2)
	assert.Len(t, spec.OrderBy, 2)
}

func TestBuilder_FetchMarksJoin(t *testing.T) {
	spec := From("members", "m").
		InnerJoin("teams", "t", Eq(F("m", "team_id"), F("t", "id"))).
		Fetch().
		Spec()

	assert.True(t, spec.Join.Fetch)

	// Fetch without a join is a no-op, not a panic.
	plain := From("members", "m").Fetch().Spec()
	assert.Nil(t, plain.Join)
}

func TestBuilder_SpecIsDetached(t *testing.T) {
	b := From("members", "m")
	first := b.Spec()
	b.Limit(2)
	second := b.Spec()

	assert.Equal(t, int64(-1), first.Limit)
	assert.Equal(t, int64(2), second.Limit)
}

func TestAggFn_String(t *testing.T) {
	assert.Equal(t, "count", AggCount.String())
	assert.Equal(t, "avg", AggAvg.String())
}

func TestStr_Normalizes(t *testing.T) {
	assert.Equal(t, Const{Value: ir.NewString("é")}, Str("é"))
}
