// Command um runs Universal Machine programs: a big-endian stream of 32-bit
// words loaded into segment 0 and executed until Halt, a fatal error, or a
// segmentation trap.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var debugFlag bool

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "um <program>",
		Short: "Universal Machine interpreter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], debugFlag)
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVarP(&debugFlag, "debug", "d", false, "step through execution interactively")
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
