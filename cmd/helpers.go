package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytune/internal/output"
	"github.com/tanq16/ytune/internal/probe"
	"github.com/tanq16/ytune/internal/profile"
	"github.com/tanq16/ytune/internal/selector"
	"github.com/tanq16/ytune/internal/ytdlp"
)

var errNoURL = errors.New("no URL provided")

// session is the state shared by the probe phase and the final download.
type session struct {
	url     string
	profile profile.SiteProfile
	tool    ytdlp.Runner
}

func prepare(args []string, prompt *prompter, quiet bool) (*session, error) {
	url, err := resolveURL(args, prompt)
	if err != nil {
		return nil, err
	}
	p, err := resolveProfile(url, quiet)
	if err != nil {
		return nil, err
	}
	path, err := ytdlp.Ensure(opts.YtdlpPath, opts.Proxy)
	if err != nil {
		return nil, fmt.Errorf("error ensuring yt-dlp: %w", err)
	}
	log.Debug().Str("op", "cmd/prepare").Msgf("Using yt-dlp at %s", path)
	return &session{url: url, profile: p, tool: &ytdlp.ExecRunner{Path: path, Proxy: opts.Proxy}}, nil
}

func resolveURL(args []string, prompt *prompter) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	url, err := prompt.ask("Paste video URL: ")
	if err != nil {
		return "", fmt.Errorf("error reading URL: %w", err)
	}
	if url == "" {
		return "", errNoURL
	}
	return url, nil
}

func resolveProfile(url string, quiet bool) (profile.SiteProfile, error) {
	table, err := profile.LoadTable(opts.ProfilesFile)
	if err != nil {
		return profile.SiteProfile{}, err
	}
	p := table.Resolve(url)
	if len(p.Matched) > 0 && !quiet {
		output.PrintInfo(fmt.Sprintf("Detected %s link - applying custom profile.", strings.Join(p.Matched, ", ")))
		fmt.Println()
	}
	return p, nil
}

func (s *session) selector() *selector.Selector {
	runner := &probe.Runner{
		Tool:    s.tool,
		Scratch: opts.ScratchRoot,
		Window:  opts.Window,
		Timeout: opts.ProbeTimeout,
	}
	return &selector.Selector{
		Prober:   runner,
		Fallback: opts.Fallback,
		OnStart: func(fragments int) {
			output.PrintPending(fmt.Sprintf("Testing with %d parallel fragments ...", fragments))
		},
		OnResult: func(r probe.Result) {
			fmt.Println(output.ProbeLine(r))
		},
	}
}

func printSelection(sel selector.Selection) {
	fmt.Println()
	if sel.Fallback {
		output.PrintWarning(fmt.Sprintf("%s Every probe failed, falling back to %d fragments", output.StyleSymbols["warning"], sel.Fragments))
		return
	}
	output.PrintSuccess(fmt.Sprintf("Best result: %d fragments (estimated speed: %s)", sel.Fragments, output.FormatKBps(sel.Speed)))
}
