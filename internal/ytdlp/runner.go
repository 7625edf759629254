package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/alessio/shellescape"
	"github.com/rs/zerolog/log"
)

// WaitDelay bounds how long Run keeps waiting on output after the child was killed.
const WaitDelay = 2 * time.Second

// Runner executes one yt-dlp invocation and blocks until it exits. The child's
// stdout and stderr are written unmodified to the given writers; a nil writer
// discards that stream.
type Runner interface {
	Run(ctx context.Context, args []string, stdout, stderr io.Writer) error
}

type ExecRunner struct {
	Path  string
	Proxy string // passed to yt-dlp as --proxy when set
}

func (r *ExecRunner) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if r.Proxy != "" {
		args = append(append([]string{}, args...), "--proxy", r.Proxy)
	}
	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = WaitDelay
	killProcessGroup(cmd)
	log.Debug().Str("op", "ytdlp/run").Msgf("Executing yt-dlp command: %s", CommandLine(r.Path, args))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("yt-dlp failed: %w", err)
	}
	return nil
}

// ExitCode extracts the child's exit status from an error returned by Run.
// It returns 0 for a nil error and 1 when no exit status is available.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// CommandLine renders an invocation the way it would be typed in a shell.
func CommandLine(path string, args []string) string {
	return shellescape.QuoteCommand(append([]string{path}, args...))
}
