// Command synthctl is the thin shell/command layer spec §6 describes:
// "(argc, argv) -> parses flags -> returns an integer status." It
// holds no synthesis logic of its own — every subcommand parses its
// flags and calls straight into the subnet/cut/rewrite/resynth/
// techmap packages, matching spec §6's "commands do not share state
// except the single global design pointer (held by the shell) and the
// logger" (here: the *diag.Logger constructed once in newRootCmd,
// below, and threaded into every subcommand).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vlsicore/subnet/internal/diag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	logger := diag.NewLogger(os.Stderr)

	root := &cobra.Command{
		Use:   "synthctl",
		Short: "subnet logic-synthesis shell",
		Long: "synthctl dispatches the subnet/cut/rewrite/techmap packages over " +
			"JSON-encoded Subnets and libraries, standing in for the Verilog/GraphML " +
			"front-ends and Liberty loader spec §1 treats as external collaborators.",
		SilenceUsage: true,
	}
	root.AddCommand(newDumpCmd(logger), newRewriteCmd(logger), newMapCmd(logger))
	return root
}
