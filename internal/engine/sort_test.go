package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobin-dev/relq/internal/entity"
	"github.com/tobin-dev/relq/internal/ir"
	"github.com/tobin-dev/relq/internal/query"
)

func TestSort_DescThenAscNullsLast(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, entity.NewUnnamedMember(100))
	f.addMember(t, entity.NewMemberWithAge("member5", 100))
	f.addMember(t, entity.NewMemberWithAge("member6", 100))

	spec := query.From("members", "m").
		Where(query.Eq(query.F("m", "age"), query.Num(100))).
		OrderBy(
			query.Desc(query.F("m", "age")),
			query.Asc(query.F("m", "user_name")).NullsLast(),
		).
		Spec()

	rows, err := f.engine.FetchRows(spec)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"member5", "member6", ""}, memberNames(rows, "m"))
	last, _ := rows[2].Row("m")
	assert.True(t, ir.IsNull(last.Get("user_name")))
}

func TestSort_DefaultNullsFirstAscending(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, entity.NewUnnamedMember(100))
	f.addMember(t, entity.NewMemberWithAge("member5", 100))

	spec := query.From("members", "m").
		Where(query.Eq(query.F("m", "age"), query.Num(100))).
		OrderBy(query.Asc(query.F("m", "user_name"))).
		Spec()

	rows, err := f.engine.FetchRows(spec)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first, _ := rows[0].Row("m")
	assert.True(t, ir.IsNull(first.Get("user_name")))
	assert.Equal(t, []string{"", "member5"}, memberNames(rows, "m"))
}

func TestSort_DefaultNullsLastDescending(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, entity.NewUnnamedMember(100))
	f.addMember(t, entity.NewMemberWithAge("member5", 100))

	spec := query.From("members", "m").
		Where(query.Eq(query.F("m", "age"), query.Num(100))).
		OrderBy(query.Desc(query.F("m", "user_name"))).
		Spec()

	rows, err := f.engine.FetchRows(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"member5", ""}, memberNames(rows, "m"))
}

func TestSort_ExplicitNullsFirstOverridesDescending(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, entity.NewUnnamedMember(100))
	f.addMember(t, entity.NewMemberWithAge("member5", 100))

	spec := query.From("members", "m").
		Where(query.Eq(query.F("m", "age"), query.Num(100))).
		OrderBy(query.Desc(query.F("m", "user_name")).NullsFirst()).
		Spec()

	rows, err := f.engine.FetchRows(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "member5"}, memberNames(rows, "m"))
}

func TestSort_StableOnTies(t *testing.T) {
	f := newFixture(t)

	// All four ages are distinct, so sort by a constant-ish key: everyone
	// keeps insertion order when the key ties.
	f.addMember(t, entity.NewMemberWithAge("tie1", 50))
	f.addMember(t, entity.NewMemberWithAge("tie2", 50))

	spec := query.From("members", "m").
		Where(query.Eq(query.F("m", "age"), query.Num(50))).
		OrderBy(query.Asc(query.F("m", "age"))).
		Spec()

	rows, err := f.engine.FetchRows(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"tie1", "tie2"}, memberNames(rows, "m"))
}

func TestSort_MultiKey(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, entity.NewMemberWithAge("alpha", 40))

	spec := query.From("members", "m").
		OrderBy(
			query.Desc(query.F("m", "age")),
			query.Asc(query.F("m", "user_name")),
		).
		Spec()

	rows, err := f.engine.FetchRows(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "member4", "member3", "member2", "member1"},
		memberNames(rows, "m"))
}
