package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tanq16/ytune/internal/output"
	"github.com/tanq16/ytune/internal/selector"
	"gopkg.in/yaml.v3"
)

type probeEntry struct {
	Fragments  int     `yaml:"fragments"`
	Elapsed    float64 `yaml:"elapsed_seconds"`
	Bytes      int64   `yaml:"bytes"`
	Throughput float64 `yaml:"throughput_kbps"`
	Error      string  `yaml:"error,omitempty"`
}

type probeReport struct {
	URL       string       `yaml:"url"`
	Matched   []string     `yaml:"matched,omitempty"`
	Fragments int          `yaml:"best_fragments"`
	Speed     float64      `yaml:"best_speed_kbps"`
	Fallback  bool         `yaml:"fallback"`
	Probes    []probeEntry `yaml:"probes"`
}

func newProbeCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "probe [URL] [--yaml]",
		Short: "Only measure fragment concurrency levels and report the fastest",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := opts.Validate(); err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			s, err := prepare(args, newPrompter(os.Stdin, os.Stdout), asYAML)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sel := s.selector()
			if asYAML {
				sel.OnStart, sel.OnResult = nil, nil
			}
			result := sel.Select(ctx, s.url, opts.Candidates, s.profile)
			if !asYAML {
				printSelection(result)
				return
			}
			data, err := yaml.Marshal(buildReport(s.url, s.profile.Matched, result))
			if err != nil {
				output.PrintError(fmt.Sprintf("Error rendering report: %v", err))
				os.Exit(1)
			}
			fmt.Print(string(data))
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the measurements as YAML")
	return cmd
}

func buildReport(url string, matched []string, sel selector.Selection) probeReport {
	report := probeReport{
		URL:       url,
		Matched:   matched,
		Fragments: sel.Fragments,
		Speed:     sel.Speed,
		Fallback:  sel.Fallback,
	}
	for _, r := range sel.Results {
		entry := probeEntry{
			Fragments:  r.Fragments,
			Elapsed:    r.Elapsed.Seconds(),
			Bytes:      r.Bytes,
			Throughput: r.Throughput(),
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		report.Probes = append(report.Probes, entry)
	}
	return report
}
