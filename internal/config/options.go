package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/tanq16/ytune/internal/probe"
	"github.com/tanq16/ytune/internal/selector"
)

// Options collects the flag values shared by the download and probe commands.
type Options struct {
	Output       string
	Candidates   []int
	Fallback     int
	Window       time.Duration
	ProbeTimeout time.Duration
	Fragments    int // fixed level, skips probing when positive
	ProfilesFile string
	YtdlpPath    string
	Proxy        string
	ScratchRoot  string
	Debug        bool
}

func Defaults() Options {
	return Options{
		Candidates: append([]int(nil), selector.DefaultCandidates...),
		Fallback:   selector.DefaultFallback,
		Window:     probe.DefaultWindow,
	}
}

func (o Options) Validate() error {
	if len(o.Candidates) == 0 {
		return errors.New("at least one candidate is required")
	}
	for i, c := range o.Candidates {
		if c <= 0 {
			return fmt.Errorf("candidate %d must be positive", c)
		}
		if i > 0 && c <= o.Candidates[i-1] {
			return fmt.Errorf("candidates must be strictly increasing (%d after %d)", c, o.Candidates[i-1])
		}
	}
	if o.Fallback <= 0 {
		return fmt.Errorf("fallback must be positive, got %d", o.Fallback)
	}
	if o.Window < time.Second {
		return fmt.Errorf("probe window must be at least 1s, got %s", o.Window)
	}
	if o.ProbeTimeout < 0 {
		return errors.New("probe timeout cannot be negative")
	}
	if o.Fragments < 0 {
		return errors.New("fragments cannot be negative")
	}
	if o.Proxy != "" {
		u, err := url.Parse(o.Proxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid proxy URL %q", o.Proxy)
		}
	}
	return nil
}
