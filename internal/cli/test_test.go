package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phaseScenario = `name: phase_walk
description: "Phase conversions and wraparound"
specs:
  - types.cue
type: Phase
steps:
  - op: to_number
    args: [Done]
    expect: "2"
  - op: add
    args: [Idle, Running]
    expect: Running
  - op: sub
    args: [Idle, Running]
    expect_fault: true
`

// setupScenarios writes a specs dir and a scenarios dir holding the given scenarios.
func setupScenarios(t *testing.T, scenarios map[string]string) (specsDir, scenariosDir string) {
	t.Helper()
	specsDir = writeSpecs(t, phaseSpec)
	scenariosDir = t.TempDir()
	for name, content := range scenarios {
		require.NoError(t, os.WriteFile(filepath.Join(scenariosDir, name), []byte(content), 0644))
	}
	return specsDir, scenariosDir
}

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeTest(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg")
}

func TestTestCommandNonExistentSpecsDir(t *testing.T) {
	_, err := executeTest(t, "text", "/nonexistent/specs", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "specs directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := executeTest(t, "text", t.TempDir(), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenarios(t *testing.T) {
	specsDir, scenariosDir := setupScenarios(t, nil)
	out, err := executeTest(t, "text", specsDir, scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandPasses(t *testing.T) {
	specsDir, scenariosDir := setupScenarios(t, map[string]string{"phase_walk.yaml": phaseScenario})

	out, err := executeTest(t, "text", specsDir, scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ phase_walk")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandFailure(t *testing.T) {
	bad := `name: phase_wrong
description: "Wrong expectation"
specs: [types.cue]
type: Phase
steps:
  - op: to_number
    args: [Done]
    expect: "1"
`
	specsDir, scenariosDir := setupScenarios(t, map[string]string{
		"phase_walk.yaml":  phaseScenario,
		"phase_wrong.yaml": bad,
	})

	out, err := executeTest(t, "json", specsDir, scenariosDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
}

func TestTestCommandFilter(t *testing.T) {
	specsDir, scenariosDir := setupScenarios(t, map[string]string{
		"phase_walk.yaml": phaseScenario,
		"other.yaml":      "name: broken\n",
	})

	out, err := executeTest(t, "text", specsDir, scenariosDir, "--filter", "phase_*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommandGolden(t *testing.T) {
	specsDir, scenariosDir := setupScenarios(t, map[string]string{"phase_walk.yaml": phaseScenario})
	goldenPath := filepath.Join(scenariosDir, "golden", "phase_walk.golden")

	out, err := executeTest(t, "text", specsDir, scenariosDir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "(golden updated)")

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name":"phase_walk"`)
	assert.Contains(t, string(golden), `"fault":"failed to parse number into enum: Phase: 255 is not a variant ordinal"`)

	_, err = executeTest(t, "text", specsDir, scenariosDir)
	require.NoError(t, err, "trace matches the golden it just wrote")

	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"tampered":true}`), 0644))
	out, err = executeTest(t, "text", specsDir, scenariosDir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}
