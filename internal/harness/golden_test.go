package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_PhaseWalk(t *testing.T) {
	scenario, err := LoadScenarioWithBasePath(
		filepath.Join("testdata", "scenarios", "phase_walk.yaml"),
		filepath.Join("testdata", "scenarios"),
	)
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestScenarioFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenarioWithBasePath(path, filepath.Dir(path))
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestTraceSnapshotIsDeterministic(t *testing.T) {
	scenario := &Scenario{
		Name:  "repeat",
		Specs: phaseSpec(),
		Type:  "Phase",
		Steps: []Step{
			{Op: OpAdd, Args: []string{"Running", "Running"}, Expect: "Done"},
			{Op: OpAdd, Args: []string{"Done", "Done"}, ExpectFault: true},
		},
	}

	var outputs [][]byte
	for i := 0; i < 3; i++ {
		result, err := Run(scenario)
		require.NoError(t, err)
		snap := TraceSnapshot{ScenarioName: scenario.Name, Type: scenario.Type, Result: result}
		data, err := snap.Marshal()
		require.NoError(t, err)
		outputs = append(outputs, data)
	}

	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[1], outputs[2])
}
