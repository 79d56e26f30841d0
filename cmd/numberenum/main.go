// Command numberenum generates ordinal conversions and arithmetic for enum
// declarations written in CUE.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/numberenum/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err != nil {
		// Subcommands write their own diagnostics; only report errors that
		// never reached a formatter, such as flag parsing failures.
		if _, ok := err.(*cli.ExitError); !ok {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
