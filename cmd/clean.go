package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/ytune/internal/output"
	"github.com/tanq16/ytune/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove probe scratch directories left by interrupted runs",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			scratch := opts.ScratchRoot
			if scratch == "" {
				scratch = os.TempDir()
			}
			toolRoot := "."
			if len(args) > 0 {
				toolRoot = args[0]
			}
			removed, err := utils.Clean(scratch, toolRoot)
			for _, path := range removed {
				output.PrintStream("removed " + path)
			}
			if err != nil {
				output.PrintError(fmt.Sprintf("Error cleaning up temporary files: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Temporary files cleaned up (%d removed)", len(removed)))
		},
	}
}
