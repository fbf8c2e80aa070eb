package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobin-dev/relq/internal/query"
	"github.com/tobin-dev/relq/internal/session"
)

const canonicalDataset = `teams:
  - name: teamA
  - name: teamB
members:
  - name: member1
    age: 10
    team: teamA
  - name: member2
    age: 20
    team: teamA
  - name: member3
    age: 30
    team: teamB
  - name: member4
    age: 40
    team: teamB
`

// writeDataset writes a dataset file into a temp dir and returns its path.
func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset_Canonical(t *testing.T) {
	ds, err := LoadDataset(writeDataset(t, canonicalDataset))
	require.NoError(t, err)

	require.Len(t, ds.Teams, 2)
	require.Len(t, ds.Members, 4)
	assert.Equal(t, "teamA", ds.Teams[0].Name)
	require.NotNil(t, ds.Members[0].Name)
	assert.Equal(t, "member1", *ds.Members[0].Name)
	require.NotNil(t, ds.Members[0].Age)
	assert.Equal(t, int64(10), *ds.Members[0].Age)
}

func TestLoadDataset_OptionalFields(t *testing.T) {
	ds, err := LoadDataset(writeDataset(t, "teams: []\nmembers:\n  - age: 100\n"))
	require.NoError(t, err)

	require.Len(t, ds.Members, 1)
	assert.Nil(t, ds.Members[0].Name)
	assert.Nil(t, ds.Members[0].Team)
}

func TestLoadDataset_FileNotFound(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadDataset_MalformedYAML(t *testing.T) {
	_, err := LoadDataset(writeDataset(t, "teams: [unclosed"))
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeParseFailed, loadErr.Code)
}

func TestLoadDataset_SchemaViolation(t *testing.T) {
	// Age must be an int.
	_, err := LoadDataset(writeDataset(t, "teams: []\nmembers:\n  - age: ten\n"))
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSchema, loadErr.Code)
}

func TestLoadDataset_EmptyTeamName(t *testing.T) {
	_, err := LoadDataset(writeDataset(t, "teams:\n  - name: \"\"\nmembers: []\n"))
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSchema, loadErr.Code)
}

func TestBuildSession_Canonical(t *testing.T) {
	ds, err := LoadDataset(writeDataset(t, canonicalDataset))
	require.NoError(t, err)

	s, err := BuildSession(ds)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Teams().Len())
	assert.Equal(t, 4, s.Members().Len())

	spec := query.From(session.MembersTable, "m").
		Where(query.Eq(query.F("m", "user_name"), query.Str("member3"))).
		Spec()
	m, found, err := s.FetchMemberOne(spec)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(30), m.Age())
	assert.Equal(t, int64(2), m.Team().TeamID())
}

func TestBuildSession_UnknownTeam(t *testing.T) {
	ds := &Dataset{
		Teams:   []TeamSpec{{Name: "teamA"}},
		Members: []MemberSpec{{Team: strPtr("teamZ")}},
	}
	_, err := BuildSession(ds)
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUnknownTeam, loadErr.Code)
}

func TestBuildSession_DuplicateTeamName(t *testing.T) {
	ds := &Dataset{Teams: []TeamSpec{{Name: "teamA"}, {Name: "teamA"}}}
	_, err := BuildSession(ds)
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSchema, loadErr.Code)
}

func strPtr(s string) *string { return &s }
