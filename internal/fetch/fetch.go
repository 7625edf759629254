package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytune/internal/profile"
	"github.com/tanq16/ytune/internal/ytdlp"
)

const VideoExt = ".mp4"

// Executor runs the full-length download. yt-dlp's output is handed to Stdout and
// Stderr unmodified; nil writers mean the process's own stdout and stderr.
type Executor struct {
	Tool   ytdlp.Runner
	Stdout io.Writer
	Stderr io.Writer
}

// Run performs the complete download with the chosen concurrency. A partial output
// left by an earlier attempt is continued and a finished one is never overwritten.
func (e *Executor) Run(ctx context.Context, url string, fragments int, p profile.SiteProfile, outputName string) error {
	args := Args(url, fragments, p, outputName)
	if err := e.Tool.Run(ctx, args, orDefault(e.Stdout, os.Stdout), orDefault(e.Stderr, os.Stderr)); err != nil {
		log.Error().Str("op", "fetch/run").Err(err).Msg("Final download failed")
		return fmt.Errorf("download of %s failed: %w", url, err)
	}
	log.Info().Str("op", "fetch/run").Msgf("yt-dlp download completed for %s", url)
	return nil
}

func orDefault(w io.Writer, fallback *os.File) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

func Args(url string, fragments int, p profile.SiteProfile, outputName string) []string {
	n := strconv.Itoa(fragments)
	args := []string{
		url,
		"-f", p.EffectiveFormat(),
		"--concurrent-fragments", n,
		"--merge-output-format", strings.TrimPrefix(VideoExt, "."),
		"-N", n,
		"--progress", "--newline", "--console-title",
		"--continue", "--no-overwrites",
		"-o", outputName,
	}
	return append(args, p.Args()...)
}

// OutputName derives the final file name from user input. Empty input yields a
// timestamped default; the video extension is appended once when missing.
func OutputName(input string, now time.Time) string {
	name := strings.TrimSpace(input)
	if name == "" {
		return "video_" + now.Format("20060102150405") + VideoExt
	}
	if strings.HasSuffix(name, VideoExt) {
		return name
	}
	return name + VideoExt
}
