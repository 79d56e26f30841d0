package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/numberenum/internal/compiler"
)

// Scenario is one conformance run over a single declaration.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists the CUE files to load, relative to the scenario file
	// when loaded with LoadScenarioWithBasePath.
	Specs []string `yaml:"specs"`

	// Type is the declaration to generate.
	Type string `yaml:"type"`

	// WidthPolicy selects compat (default) or exact widths.
	WidthPolicy string `yaml:"width_policy,omitempty"`

	// ExpectError is the code generation must fail with. Steps are not
	// allowed when it is set.
	ExpectError string `yaml:"expect_error,omitempty"`

	Steps []Step `yaml:"steps,omitempty"`
}

// Step evaluates one operation.
type Step struct {
	Op   string   `yaml:"op"`
	Args []string `yaml:"args"`

	// Expect is the variant name, or the decimal ordinal for to_number.
	// For assign ops it is the new value of the first argument.
	Expect string `yaml:"expect,omitempty"`

	// ExpectFault requires the step to raise the invalid ordinal fault.
	ExpectFault bool `yaml:"expect_fault,omitempty"`
}

// Step operations.
const (
	OpToNumber   = "to_number"
	OpFromNumber = "from_number"
	OpAdd        = "add"
	OpSub        = "sub"
	OpAddAssign  = "add_assign"
	OpSubAssign  = "sub_assign"
)

var opArity = map[string]int{
	OpToNumber:   1,
	OpFromNumber: 1,
	OpAdd:        2,
	OpSub:        2,
	OpAddAssign:  2,
	OpSubAssign:  2,
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads a scenario and resolves relative spec
// paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}
	if s.Type == "" {
		return fmt.Errorf("type is required")
	}
	if _, err := compiler.ParseWidthPolicy(s.WidthPolicy); err != nil {
		return err
	}

	if s.ExpectError != "" {
		if len(s.Steps) > 0 {
			return fmt.Errorf("steps are not allowed with expect_error")
		}
	} else if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i, step := range s.Steps {
		arity, ok := opArity[step.Op]
		if !ok {
			ops := make([]string, 0, len(opArity))
			for op := range opArity {
				ops = append(ops, op)
			}
			slices.Sort(ops)
			return fmt.Errorf("steps[%d]: unknown op %q (valid: %v)", i, step.Op, ops)
		}
		if len(step.Args) != arity {
			return fmt.Errorf("steps[%d]: %s takes %d args, got %d", i, step.Op, arity, len(step.Args))
		}
		if step.ExpectFault && step.Expect != "" {
			return fmt.Errorf("steps[%d]: expect and expect_fault are mutually exclusive", i)
		}
	}

	return nil
}
