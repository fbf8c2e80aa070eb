package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// resultSnapshot is the serialized form compared against golden files.
// Maps marshal with sorted keys, so the rendering is deterministic.
type resultSnapshot struct {
	Scenario string           `json:"scenario"`
	Rows     []map[string]any `json:"rows,omitempty"`
	Tuples   []map[string]any `json:"tuples,omitempty"`
}

// RunWithGolden executes a scenario and compares its rendered result
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	snapshot := resultSnapshot{
		Scenario: scenario.Name,
		Rows:     result.Rows,
		Tuples:   result.Tuples,
	}
	rendered, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, rendered)

	return nil
}
