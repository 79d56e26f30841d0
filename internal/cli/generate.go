package cli

import (
	"context"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/numberenum/internal/compiler"
	"github.com/roach88/numberenum/internal/emit"
	"github.com/roach88/numberenum/internal/ir"
	"github.com/roach88/numberenum/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
}

// GeneratedFile describes one emitted capability.
type GeneratedFile struct {
	Type         string `json:"type"`
	Path         string `json:"path"`
	GoType       string `json:"go_type"`
	Variants     int    `json:"variants"`
	CapabilityID string `json:"capability_id"`
	Unchanged    bool   `json:"unchanged,omitempty"` // ledger matched; file not rewritten
}

// GenerateResult is the outcome of a generate run.
type GenerateResult struct {
	Package   string          `json:"package"`
	RunID     string          `json:"run_id,omitempty"`
	Generated []GeneratedFile `json:"generated"`
	Skipped   []string        `json:"skipped,omitempty"` // declarations without derive(NumberEnum)
	Errors    []CLIError      `json:"errors,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <specs-dir>",
		Short: "Generate Go code for every NumberEnum declaration",
		Long: `Generate one Go file per declaration that derives NumberEnum.

Declarations are independent: one that fails validation is reported and
the others are still generated.

With --ledger, each emitted file is recorded in a SQLite ledger and a later
run leaves files alone whose capability has not changed.

Exit codes:
  0 - All declarations generated
  1 - One or more declarations failed
  2 - Command error (invalid paths, unreadable specs, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringP("output", "o", ".", "output directory")
	cmd.Flags().String("package", "", "package name (default: output directory name)")
	cmd.Flags().String("width-policy", "compat", "width policy (compat|exact)")
	cmd.Flags().String("ledger", "", "generation ledger database path")

	v := rootOpts.config()
	_ = v.BindPFlag(KeyOutput, cmd.Flags().Lookup("output"))
	_ = v.BindPFlag(KeyPackage, cmd.Flags().Lookup("package"))
	_ = v.BindPFlag(KeyWidthPolicy, cmd.Flags().Lookup("width-policy"))
	_ = v.BindPFlag(KeyLedger, cmd.Flags().Lookup("ledger"))

	return cmd
}

func runGenerate(ctx context.Context, opts *GenerateOptions, specsDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	configPath, err := opts.loadConfig(specsDir)
	if err != nil {
		return commandError(formatter, ErrCodeNotFound, err.Error())
	}
	if configPath != "" {
		formatter.VerboseLog("Using config file: %s", configPath)
	}

	v := opts.config()
	policy, err := compiler.ParseWidthPolicy(v.GetString(KeyWidthPolicy))
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}

	outDir := v.GetString(KeyOutput)
	pkg, err := packageName(v.GetString(KeyPackage), outDir)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}

	loadResult, loadErrs := LoadSpecs(specsDir)
	if loadResult == nil {
		e := toCLIError(loadErrs[0])
		return commandError(formatter, e.Code, e.Message)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)
	if len(loadErrs) > 0 {
		return compileFailure(formatter, loadErrs)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("creating output directory: %v", err))
	}

	var ledger *store.Store
	var run store.Run
	if path := v.GetString(KeyLedger); path != "" {
		ledger, err = store.Open(path)
		if err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("opening ledger: %v", err))
		}
		defer ledger.Close()

		run, err = ledger.BeginRun(ctx, specsDir, string(policy))
		if err != nil {
			return commandError(formatter, ErrCodeWriteFailed, err.Error())
		}
		formatter.VerboseLog("Ledger run %s", run.ID)
	}

	result := GenerateResult{Package: pkg, RunID: run.ID, Generated: []GeneratedFile{}}
	outcomes := compiler.GenerateAll(loadResult.Declarations, compiler.Options{WidthPolicy: policy})
	owners := outputOwners(outcomes)
	for _, out := range outcomes {
		name := out.Declaration.Name
		switch {
		case out.Skipped:
			formatter.VerboseLog("Skipping %s: no derive(%s)", name, compiler.DeriveName)
			result.Skipped = append(result.Skipped, name)
		case out.Err != nil:
			formatter.VerboseLog("Rejected %s: %v", name, out.Err)
			result.Errors = append(result.Errors, toCLIError(out.Err))
		case len(owners[emit.FileName(name)]) > 1:
			file := emit.FileName(name)
			result.Errors = append(result.Errors, CLIError{
				Code:     ErrCodeOutputClash,
				Message:  fmt.Sprintf("%s would be written by %s", file, strings.Join(owners[file], ", ")),
				Type:     name,
				Position: out.Declaration.Pos.String(),
			})
		default:
			file, err := writeCapability(ctx, out.Capability, outDir, pkg, ledger, run.ID)
			if err != nil {
				result.Errors = append(result.Errors, CLIError{Code: ErrCodeWriteFailed, Message: err.Error(), Type: name})
				continue
			}
			formatter.VerboseLog("Generated %s -> %s", name, file.Path)
			result.Generated = append(result.Generated, file)
		}
	}

	if len(result.Errors) > 0 {
		if err := formatter.Failure(fmt.Sprintf("Generation failed for %d declaration(s)", len(result.Errors)), result, result.Errors); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("generation failed with %d error(s)", len(result.Errors)))
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Generated %d type(s) in package %s\n", len(result.Generated), pkg)
	for _, f := range result.Generated {
		suffix := ""
		if f.Unchanged {
			suffix = " (unchanged)"
		}
		fmt.Fprintf(w, "  %s: %s, %d variant(s) -> %s%s\n", f.Type, f.GoType, f.Variants, f.Path, suffix)
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped without derive(%s): %s\n", compiler.DeriveName, strings.Join(result.Skipped, ", "))
	}
	return nil
}

// outputOwners maps each output file name to the types that would write it.
func outputOwners(outcomes []compiler.Outcome) map[string][]string {
	owners := make(map[string][]string)
	for _, out := range outcomes {
		if out.Skipped || out.Err != nil {
			continue
		}
		file := emit.FileName(out.Declaration.Name)
		owners[file] = append(owners[file], out.Declaration.Name)
	}
	return owners
}

// writeCapability renders c into outDir. With a ledger, an unchanged
// capability is not rewritten and nothing is recorded for it.
func writeCapability(ctx context.Context, c *ir.Capability, outDir, pkg string, ledger *store.Store, runID string) (GeneratedFile, error) {
	path := filepath.Join(outDir, emit.FileName(c.TypeName))
	file := GeneratedFile{
		Type:         c.TypeName,
		Path:         path,
		GoType:       c.Width.GoType,
		Variants:     c.Table.Len(),
		CapabilityID: c.ID,
	}

	if ledger != nil {
		fresh, err := ledger.UpToDate(ctx, c, pkg, path)
		if err != nil {
			return file, err
		}
		if fresh {
			file.Unchanged = true
			return file, nil
		}
	}

	src, err := emit.Render(c, emit.Config{Package: pkg})
	if err != nil {
		return file, err
	}
	if err := os.WriteFile(path, src, 0644); err != nil {
		return file, fmt.Errorf("writing %s: %w", path, err)
	}

	if ledger != nil {
		_, err := ledger.RecordGeneration(ctx, store.Generation{
			RunID:           runID,
			TypeName:        c.TypeName,
			DeclarationHash: c.DeclarationHash,
			CapabilityID:    c.ID,
			PackageName:     pkg,
			OutputPath:      path,
		})
		if err != nil {
			return file, err
		}
	}
	return file, nil
}

// packageName returns pkg, or the output directory's base name when pkg is empty.
func packageName(pkg, outDir string) (string, error) {
	if pkg == "" {
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return "", fmt.Errorf("resolving output directory: %w", err)
		}
		pkg = strings.ToLower(strings.NewReplacer("-", "", ".", "").Replace(filepath.Base(abs)))
	}
	if !token.IsIdentifier(pkg) {
		return "", fmt.Errorf("invalid package name %q: set --package", pkg)
	}
	return pkg, nil
}

// commandError reports an error that stopped the command before any
// declaration was processed.
func commandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// compileFailure reports declaration compile errors. The specs are
// malformed, so this is a command error.
func compileFailure(formatter *OutputFormatter, errs []error) error {
	cliErrs := make([]CLIError, len(errs))
	for i, err := range errs {
		cliErrs[i] = toCLIError(err)
	}
	if err := formatter.Failure("Compilation failed", cliErrs, cliErrs); err != nil {
		return err
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}
