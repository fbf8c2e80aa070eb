package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryJSON(t *testing.T, out string) QueryResult {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result QueryResult
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func TestQueryCommand_AllMembers(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	out, err := execute(t, "--format", "json", "query", path)
	require.NoError(t, err)

	result := queryJSON(t, out)
	assert.Equal(t, int64(4), result.Total)
	require.Len(t, result.Members, 4)
	require.NotNil(t, result.Members[0].Name)
	assert.Equal(t, "member1", *result.Members[0].Name)
}

func TestQueryCommand_FilterByTeamAndAge(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	out, err := execute(t, "--format", "json", "query", path,
		"--team", "teamB", "--min-age", "40")
	require.NoError(t, err)

	result := queryJSON(t, out)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Members, 1)
	assert.Equal(t, "member4", *result.Members[0].Name)
	require.NotNil(t, result.Members[0].Team)
	assert.Equal(t, "teamB", *result.Members[0].Team)
}

func TestQueryCommand_Contains(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	out, err := execute(t, "--format", "json", "query", path, "--contains", "ber2")
	require.NoError(t, err)

	result := queryJSON(t, out)
	require.Len(t, result.Members, 1)
	assert.Equal(t, "member2", *result.Members[0].Name)
}

func TestQueryCommand_OrderAndPage(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	out, err := execute(t, "--format", "json", "query", path,
		"--order-by", "age", "--desc", "--offset", "1", "--limit", "2")
	require.NoError(t, err)

	result := queryJSON(t, out)
	assert.Equal(t, int64(4), result.Total)
	require.Len(t, result.Members, 2)
	assert.Equal(t, int64(30), result.Members[0].Age)
	assert.Equal(t, int64(20), result.Members[1].Age)
}

func TestQueryCommand_TextOutput(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	out, err := execute(t, "query", path, "--name", "member1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 member(s) of 1 total")
	assert.Contains(t, out, "member1 age=10 team=teamA")
}

func TestQueryCommand_UnnamedMember(t *testing.T) {
	path := writeDataset(t, "teams: []\nmembers:\n  - age: 100\n")

	out, err := execute(t, "query", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<unnamed>")
	assert.Contains(t, out, "team=-")
}

func TestQueryCommand_BadOrderField(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	_, err := execute(t, "query", path, "--order-by", "height")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestQueryCommand_NegativeOffset(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	_, err := execute(t, "query", path, "--offset", "-2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStatsCommand_GroupsByTeam(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	out, err := execute(t, "--format", "json", "stats", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)

	raw, errMarshal := json.Marshal(resp.Data)
	require.NoError(t, errMarshal)
	var result StatsResult
	require.NoError(t, json.Unmarshal(raw, &result))

	require.Len(t, result.Teams, 2)
	require.NotNil(t, result.Teams[0].Team)
	assert.Equal(t, "teamA", *result.Teams[0].Team)
	assert.Equal(t, int64(2), result.Teams[0].Count)
	require.NotNil(t, result.Teams[0].AvgAge)
	assert.Equal(t, 15.0, *result.Teams[0].AvgAge)
	require.NotNil(t, result.Teams[1].MaxAge)
	assert.Equal(t, int64(40), *result.Teams[1].MaxAge)
}

func TestStatsCommand_TeamlessGroup(t *testing.T) {
	path := writeDataset(t, "teams:\n  - name: teamA\nmembers:\n  - name: member1\n    age: 10\n    team: teamA\n  - name: loner\n    age: 50\n")

	out, err := execute(t, "stats", path)
	require.NoError(t, err)
	assert.Contains(t, out, "teamA: count=1 avg=10.0")
	assert.Contains(t, out, "<no team>: count=1 avg=50.0")
}
