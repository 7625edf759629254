package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytune/internal/profile"
	"github.com/tanq16/ytune/internal/utils"
	"github.com/tanq16/ytune/internal/ytdlp"
)

const DefaultWindow = 20 * time.Second

var ErrEmptyScratch = errors.New("probe wrote no data")

// Result is the measurement of one probe download.
type Result struct {
	Fragments int
	Elapsed   time.Duration
	Bytes     int64
	Err       error
}

// Throughput returns KB/s, or 0 when nothing was measured.
func (r Result) Throughput() float64 {
	return Throughput(r.Bytes, r.Elapsed.Seconds())
}

func Throughput(bytes int64, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 || bytes == 0 {
		return 0
	}
	return (float64(bytes) / 1024) / elapsedSeconds
}

type Runner struct {
	Tool    ytdlp.Runner
	Scratch string        // parent of per-probe scratch dirs; os.TempDir() when empty
	Window  time.Duration // length of the media section fetched
	Timeout time.Duration // per-probe watchdog, none when zero
	Now     func() time.Time
}

// Probe downloads the first Window of url into an isolated scratch directory using
// the given fragment concurrency and returns the bytes written and time taken.
// Failures are recorded on the result and never returned.
func (r *Runner) Probe(ctx context.Context, url string, fragments int, p profile.SiteProfile) Result {
	res := Result{Fragments: fragments}
	root := r.Scratch
	if root == "" {
		root = os.TempDir()
	}
	dir, err := os.MkdirTemp(root, utils.ScratchPrefix+uuid.NewString()+"-")
	if err != nil {
		res.Err = fmt.Errorf("error creating scratch directory: %w", err)
		return res
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn().Str("op", "probe/cleanup").Err(err).Msgf("Could not remove scratch directory %s", dir)
		}
	}()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	tail := &tailWriter{max: 4096}
	args := Args(url, fragments, r.window(), filepath.Join(dir, "probe.%(ext)s"), p)
	now := r.now()
	start := now()
	err = r.Tool.Run(ctx, args, tail, tail)
	res.Elapsed = now().Sub(start)
	if err != nil {
		log.Debug().Str("op", "probe/run").Err(err).Strs("tail", tail.Lines(5)).Msgf("Probe with %d fragments failed", fragments)
		res.Err = err
		return res
	}

	size, err := utils.DirSize(dir)
	if err != nil {
		res.Err = fmt.Errorf("error measuring scratch directory: %w", err)
		return res
	}
	if size == 0 {
		res.Err = ErrEmptyScratch
		return res
	}
	res.Bytes = size
	return res
}

// Args builds the yt-dlp arguments for a time-boxed probe download.
func Args(url string, fragments int, window time.Duration, outputTemplate string, p profile.SiteProfile) []string {
	args := []string{
		url,
		"-f", p.EffectiveFormat(),
		"--concurrent-fragments", strconv.Itoa(fragments),
		"--no-part", "--no-overwrites",
		"--download-sections", "*" + section(window),
		"-o", outputTemplate,
	}
	return append(args, p.Args()...)
}

func section(window time.Duration) string {
	secs := int(window.Round(time.Second) / time.Second)
	return fmt.Sprintf("00:00:00-%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

func (r *Runner) window() time.Duration {
	if r.Window < time.Second {
		return DefaultWindow
	}
	return r.Window
}

func (r *Runner) now() func() time.Time {
	if r.Now == nil {
		return time.Now
	}
	return r.Now
}

// tailWriter keeps the last max bytes of yt-dlp output for failure logs. When it
// is both stdout and stderr, exec serialises the writes.
type tailWriter struct {
	buf []byte
	max int
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	if len(w.buf) > w.max {
		w.buf = append(w.buf[:0], w.buf[len(w.buf)-w.max:]...)
	}
	return len(p), nil
}

// Lines returns up to n of the last non-empty output lines.
func (w *tailWriter) Lines(n int) []string {
	var lines []string
	for _, line := range strings.Split(string(w.buf), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
