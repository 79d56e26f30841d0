package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/numberenum/internal/ir"
)

// TraceSnapshot captures a scenario's trace for golden comparison.
type TraceSnapshot struct {
	ScenarioName string
	Type         string
	Result       *Result
}

// canonicalMap converts the snapshot for ir.MarshalCanonical.
// The capability ID is left out so goldens survive generator upgrades.
func (s *TraceSnapshot) canonicalMap() map[string]any {
	trace := make([]any, len(s.Result.Trace))
	for i, ev := range s.Result.Trace {
		event := map[string]any{
			"seq":  ev.Seq,
			"op":   ev.Op,
			"args": ev.Args,
		}
		if ev.Result != "" {
			event["result"] = ev.Result
		}
		if ev.Fault != "" {
			event["fault"] = ev.Fault
		}
		if ev.Error != "" {
			event["error"] = ev.Error
		}
		trace[i] = event
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"type":          s.Type,
		"pass":          s.Result.Pass,
		"trace":         trace,
	}
}

// Marshal returns the snapshot as canonical JSON.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	return ir.MarshalCanonical(s.canonicalMap())
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, scenario.Type, result)
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, name, typeName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{ScenarioName: name, Type: typeName, Result: result}
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
