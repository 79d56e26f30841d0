package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/numberenum/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool       `json:"valid"`
	Declarations int        `json:"declarations"`
	Derived      int        `json:"derived"`
	Errors       []CLIError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate declarations without writing files",
		Long: `Validate every declaration in a specs directory.

Runs the same checks as generate (shape, repr width, variant capacity) and
reports every error found, without writing any output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	cmd.Flags().String("width-policy", "", "width policy (compat|exact); defaults to config")

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := opts.loadConfig(specsDir); err != nil {
		return commandError(formatter, ErrCodeNotFound, err.Error())
	}
	policyName := opts.config().GetString(KeyWidthPolicy)
	if f := cmd.Flags().Lookup("width-policy"); f != nil && f.Changed {
		policyName = f.Value.String()
	}
	policy, err := compiler.ParseWidthPolicy(policyName)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}

	loadResult, loadErrs := LoadSpecs(specsDir)
	if loadResult == nil {
		e := toCLIError(loadErrs[0])
		return commandError(formatter, e.Code, e.Message)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	result := ValidationResult{Declarations: len(loadResult.Declarations) + len(loadErrs)}
	for _, err := range loadErrs {
		result.Errors = append(result.Errors, toCLIError(err))
	}

	for _, out := range compiler.GenerateAll(loadResult.Declarations, compiler.Options{WidthPolicy: policy}) {
		if out.Skipped {
			continue
		}
		result.Derived++
		formatter.VerboseLog("Validating %s", out.Declaration.Name)
		if out.Err != nil {
			result.Errors = append(result.Errors, toCLIError(out.Err))
		}
	}

	if result.Declarations == 0 {
		return commandError(formatter, ErrCodeGeneric, "no declarations found under \""+compiler.DeclarationsPath+"\"")
	}

	if len(result.Errors) > 0 {
		if err := formatter.Failure("Validation failed", result, result.Errors); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}

	result.Valid = true
	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ All specs valid (%d declaration(s), %d deriving %s)\n",
		result.Declarations, result.Derived, compiler.DeriveName)
	return nil
}
