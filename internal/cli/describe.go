package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/numberenum/internal/compiler"
	"github.com/roach88/numberenum/internal/engine"
	"github.com/roach88/numberenum/internal/ir"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "describe <specs-dir>",
		Short: "Show the synthesized capabilities",
		Long: `Show the capability synthesized for each NumberEnum declaration: its
width, ordinal table, conversions and operations.

With --format json the capabilities are written as JSON.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(rootOpts, args[0], typeName, cmd)
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "only describe this type")

	return cmd
}

func runDescribe(opts *RootOptions, specsDir, typeName string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := opts.loadConfig(specsDir); err != nil {
		return commandError(formatter, ErrCodeNotFound, err.Error())
	}
	policy, err := compiler.ParseWidthPolicy(opts.config().GetString(KeyWidthPolicy))
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}

	loadResult, loadErrs := LoadSpecs(specsDir)
	if loadResult == nil {
		e := toCLIError(loadErrs[0])
		return commandError(formatter, e.Code, e.Message)
	}
	if len(loadErrs) > 0 {
		return compileFailure(formatter, loadErrs)
	}

	var caps []*ir.Capability
	var errs []CLIError
	for _, out := range compiler.GenerateAll(loadResult.Declarations, compiler.Options{WidthPolicy: policy}) {
		if out.Skipped || (typeName != "" && out.Declaration.Name != typeName) {
			continue
		}
		if out.Err != nil {
			errs = append(errs, toCLIError(out.Err))
			continue
		}
		caps = append(caps, out.Capability)
	}

	if typeName != "" && len(caps) == 0 && len(errs) == 0 {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("type %s not found or does not derive %s", typeName, compiler.DeriveName))
	}

	if len(errs) > 0 {
		if err := formatter.Failure("Describe failed", caps, errs); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("describe failed with %d error(s)", len(errs)))
	}

	if formatter.IsJSON() {
		return formatter.Success(caps)
	}

	for _, c := range caps {
		if err := describeText(formatter, c); err != nil {
			return err
		}
	}
	return nil
}

// describeText prints one capability, reading the table back through the
// evaluator so the listing is exactly what FromNumber accepts.
func describeText(formatter *OutputFormatter, c *ir.Capability) error {
	eval, err := engine.New(c)
	if err != nil {
		return err
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s (%s, %d-bit, repr(%s))\n", c.TypeName, c.Width.GoType, c.Width.Bits, c.Width.Marker)
	fmt.Fprintf(w, "  capability: %s\n", c.ID)
	for n := uint64(0); n < uint64(c.Table.Len()); n++ {
		fmt.Fprintf(w, "  %3d  %s\n", n, eval.FromNumber(n))
	}
	for _, conv := range c.Conversions {
		line := fmt.Sprintf("  %s: %s -> %s", conv.Name, conv.From, conv.To)
		if conv.Partial {
			line += fmt.Sprintf(" (partial, faults %q)", conv.Fault)
		}
		fmt.Fprintln(w, line)
	}
	for _, op := range c.Operations {
		fmt.Fprintf(w, "  %s: FromNumber(ToNumber(a) %s ToNumber(b))", op.Name, op.Operator)
		if op.Assign {
			fmt.Fprint(w, ", rebinds a")
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	return nil
}
