package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanq16/ytune/internal/output"
	"github.com/tanq16/ytune/internal/profile"
	"gopkg.in/yaml.v3"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [URL]",
		Short: "Show the site profile table, or the profile applied to a URL",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			table, err := profile.LoadTable(opts.ProfilesFile)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			if len(args) == 0 {
				data, err := yaml.Marshal(table)
				if err != nil {
					output.PrintError(fmt.Sprintf("Error rendering profiles: %v", err))
					os.Exit(1)
				}
				fmt.Print(string(data))
				return
			}
			printProfile(table.Resolve(args[0]))
		},
	}
}

func printProfile(p profile.SiteProfile) {
	if len(p.Matched) == 0 {
		output.PrintWarning("No site profile matched, yt-dlp defaults apply")
	} else {
		output.PrintInfo("Matched: " + strings.Join(p.Matched, ", "))
	}
	output.PrintDetail("Format: " + p.EffectiveFormat())
	if args := p.Args(); len(args) > 0 {
		output.PrintDetail("Arguments: " + strings.Join(args, " "))
	}
}
