package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_ValidDataset(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "dataset valid: 2 team(s), 4 member(s)")
}

func TestValidateCommand_JSONOutput(t *testing.T) {
	path := writeDataset(t, canonicalDataset)

	out, err := execute(t, "--format", "json", "validate", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(2), data["teams"])
	assert.Equal(t, float64(4), data["members"])
}

func TestValidateCommand_MissingFile(t *testing.T) {
	out, err := execute(t, "validate", "no-such-file.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestValidateCommand_SchemaViolation(t *testing.T) {
	path := writeDataset(t, "teams: []\nmembers:\n  - age: -3\n")

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeSchema)
}

func TestValidateCommand_UnknownTeamReference(t *testing.T) {
	path := writeDataset(t, "teams:\n  - name: teamA\nmembers:\n  - name: member1\n    team: teamZ\n")

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeUnknownTeam)
}
