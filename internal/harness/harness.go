package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/numberenum/internal/compiler"
	"github.com/roach88/numberenum/internal/engine"
	"github.com/roach88/numberenum/internal/ir"
	"github.com/roach88/numberenum/ordinal"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step matched its expectation.
	Pass bool `json:"pass"`

	// CapabilityID identifies the capability the steps ran against.
	// Empty when generation failed.
	CapabilityID string `json:"capability_id,omitempty"`

	// Trace holds one event per step, in order.
	Trace []engine.Event `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []engine.Event{},
		Errors: []string{},
	}
}

// AddError records an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

type coded interface {
	Code() string
}

// Run loads the scenario's specs, generates the named type and evaluates
// every step. A returned error means the scenario could not run; step
// mismatches are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	value, err := compiler.LoadFiles(scenario.Specs)
	if err != nil {
		return nil, err
	}

	decls, errs := compiler.CompileAll(value)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	var decl *ir.Declaration
	for _, d := range decls {
		if d.Name == scenario.Type {
			decl = d
			break
		}
	}
	if decl == nil {
		return nil, fmt.Errorf("type %s not declared in %v", scenario.Type, scenario.Specs)
	}

	policy, err := compiler.ParseWidthPolicy(scenario.WidthPolicy)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	c, genErr := compiler.Generate(decl, compiler.Options{WidthPolicy: policy})
	if scenario.ExpectError != "" {
		checkGenerationError(scenario, genErr, result)
		return result, nil
	}
	if genErr != nil {
		return nil, genErr
	}
	result.CapabilityID = c.ID

	eval, err := engine.New(c)
	if err != nil {
		return nil, err
	}

	rec := engine.NewRecorder()
	for i, step := range scenario.Steps {
		ev := rec.Record(execute(eval, step))
		slog.Debug("scenario step", "scenario", scenario.Name, "seq", ev.Seq, "op", ev.Op)
		checkStep(i, step, ev, result)
	}
	result.Trace = rec.Events()

	return result, nil
}

func checkGenerationError(scenario *Scenario, err error, result *Result) {
	if err == nil {
		result.AddError(fmt.Sprintf("expected generation error %s, got none", scenario.ExpectError))
		return
	}
	var c coded
	if !errors.As(err, &c) {
		result.AddError(fmt.Sprintf("expected generation error %s, got uncoded error: %v", scenario.ExpectError, err))
		return
	}
	if c.Code() != scenario.ExpectError {
		result.AddError(fmt.Sprintf("expected generation error %s, got %s: %v", scenario.ExpectError, c.Code(), err))
	}
}

// execute runs one step. Faults are recovered into the event.
func execute(eval *engine.Evaluator, step Step) (ev engine.Event) {
	ev = engine.Event{Op: step.Op, Args: step.Args}

	var out string
	var err error
	fault := ordinal.Catch(func() {
		out, err = dispatch(eval, step)
	})

	switch {
	case fault != nil:
		ev.Fault = fault.Error()
	case err != nil:
		ev.Error = err.Error()
	default:
		ev.Result = out
	}
	return ev
}

func dispatch(eval *engine.Evaluator, step Step) (string, error) {
	switch step.Op {
	case OpToNumber:
		n, err := eval.ToNumber(step.Args[0])
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(n, 10), nil
	case OpFromNumber:
		n, err := strconv.ParseUint(step.Args[0], 10, 64)
		if err != nil {
			return "", fmt.Errorf("from_number: %w", err)
		}
		return eval.FromNumber(n), nil
	case OpAdd:
		return eval.Add(step.Args[0], step.Args[1])
	case OpSub:
		return eval.Sub(step.Args[0], step.Args[1])
	case OpAddAssign:
		v := step.Args[0]
		err := eval.AddAssign(&v, step.Args[1])
		return v, err
	case OpSubAssign:
		v := step.Args[0]
		err := eval.SubAssign(&v, step.Args[1])
		return v, err
	}
	return "", fmt.Errorf("unknown op %q", step.Op)
}

func checkStep(i int, step Step, ev engine.Event, result *Result) {
	switch {
	case step.ExpectFault:
		if ev.Fault == "" {
			result.AddError(fmt.Sprintf("steps[%d] %s%v: expected fault, got %s", i, step.Op, step.Args, describe(ev)))
		}
	case ev.Fault != "" || ev.Error != "":
		result.AddError(fmt.Sprintf("steps[%d] %s%v: unexpected %s", i, step.Op, step.Args, describe(ev)))
	case step.Expect != "" && ev.Result != step.Expect:
		result.AddError(fmt.Sprintf("steps[%d] %s%v: expected %q, got %q", i, step.Op, step.Args, step.Expect, ev.Result))
	}
}

func describe(ev engine.Event) string {
	switch {
	case ev.Fault != "":
		return "fault: " + ev.Fault
	case ev.Error != "":
		return "error: " + ev.Error
	}
	return fmt.Sprintf("result %q", ev.Result)
}
