package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/ytune/internal/config"
	"github.com/tanq16/ytune/internal/fetch"
	"github.com/tanq16/ytune/internal/output"
	"github.com/tanq16/ytune/internal/utils"
	"github.com/tanq16/ytune/internal/ytdlp"
)

var opts = config.Defaults()

var YtuneVersion = "dev"

// yt-dlp writes to these directly during the final download.
var ytdlpStdout, ytdlpStderr io.Writer = os.Stdout, os.Stderr

var rootCmd = &cobra.Command{
	Use:     "ytune [URL]",
	Short:   "ytune probes yt-dlp fragment concurrency and downloads with the fastest level",
	Version: YtuneVersion,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(opts.Debug)
	},
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runDownload(args, newPrompter(os.Stdin, os.Stdout)))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDownload(args []string, prompt *prompter) int {
	if err := opts.Validate(); err != nil {
		output.PrintError(err.Error())
		return 1
	}
	output.PrintHeader("Smart yt-dlp downloader - testing optimal parallelism.")
	fmt.Println()

	s, err := prepare(args, prompt, false)
	if err != nil {
		output.PrintError(err.Error())
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fragments := opts.Fragments
	if fragments > 0 {
		output.PrintInfo(fmt.Sprintf("Skipping probes, using %d fragments.", fragments))
	} else {
		sel := s.selector().Select(ctx, s.url, opts.Candidates, s.profile)
		printSelection(sel)
		fragments = sel.Fragments
	}
	if ctx.Err() != nil {
		output.PrintWarning("Interrupted before the download started")
		return 130
	}

	name := opts.Output
	if name == "" {
		name, err = prompt.ask("Enter filename (without .mp4) or press Enter for the default name: ")
		if err != nil {
			output.PrintError(fmt.Sprintf("Error reading filename: %v", err))
			return 1
		}
	}
	outputName := fetch.OutputName(name, time.Now())

	fmt.Println()
	output.PrintPending(fmt.Sprintf("Starting download with %d parallel fragments %s %s", fragments, output.StyleSymbols["arrow"], outputName))
	fmt.Println()
	executor := &fetch.Executor{Tool: s.tool, Stdout: ytdlpStdout, Stderr: ytdlpStderr}
	if err := executor.Run(ctx, s.url, fragments, s.profile, outputName); err != nil {
		fmt.Println()
		if ctx.Err() != nil {
			output.PrintWarning("Download interrupted, run again with the same name to continue")
		} else {
			output.PrintError(fmt.Sprintf("Download failed: %v", err))
		}
		return exitStatus(ctx, err)
	}
	fmt.Println()
	output.PrintSuccess(fmt.Sprintf("%s Saved %s", output.StyleSymbols["pass"], outputName))
	log.Debug().Str("op", "cmd/root").Msgf("Finished download of %s", s.url)
	return 0
}

// exitStatus maps the outcome of the final download to the process exit code.
// An interrupt wins over whatever status the killed yt-dlp reported.
func exitStatus(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	if ctx.Err() != nil {
		return 130
	}
	return ytdlp.ExitCode(err)
}

func init() {
	rootCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file name (.mp4 is appended when missing)")
	rootCmd.Flags().IntVar(&opts.Fragments, "fragments", 0, "Skip probing and download with this many fragments")

	rootCmd.PersistentFlags().IntSliceVar(&opts.Candidates, "candidates", opts.Candidates, "Fragment counts to probe, in order")
	rootCmd.PersistentFlags().IntVar(&opts.Fallback, "fallback", opts.Fallback, "Fragment count used when every probe fails")
	rootCmd.PersistentFlags().DurationVar(&opts.Window, "window", opts.Window, "Length of media fetched by each probe (eg. 20s, 1m)")
	rootCmd.PersistentFlags().DurationVar(&opts.ProbeTimeout, "probe-timeout", 0, "Abort a probe after this long (0 disables)")
	rootCmd.PersistentFlags().StringVar(&opts.ProfilesFile, "profiles", "", "YAML file with additional site profiles")
	rootCmd.PersistentFlags().StringVar(&opts.YtdlpPath, "ytdlp", "", "Path to the yt-dlp binary (found or fetched automatically if empty)")
	rootCmd.PersistentFlags().StringVar(&opts.Proxy, "proxy", "", "Proxy URL for yt-dlp and the yt-dlp binary download")
	rootCmd.PersistentFlags().StringVar(&opts.ScratchRoot, "scratch", "", "Directory for probe scratch files (system temp dir if empty)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newProbeCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newCleanCmd())
}
