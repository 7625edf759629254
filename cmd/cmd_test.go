package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/ytune/internal/config"
	"github.com/tanq16/ytune/internal/probe"
	"github.com/tanq16/ytune/internal/selector"
)

func testPrompter(input string) *prompter {
	return &prompter{in: bufio.NewReader(strings.NewReader(input)), out: io.Discard}
}

// fakeYtdlp writes a shell script that creates its -o target, optionally exiting
// with failCode when the resume flag is present.
func fakeYtdlp(t *testing.T, failCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	script := `#!/bin/sh
out=""
final=0
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
    --continue) final=1 ;;
  esac
  shift
done
if [ "$final" = 1 ] && [ "__FAILCODE__" != 0 ]; then
  echo "ERROR: fragment rejected" >&2
  exit __FAILCODE__
fi
out=$(printf '%s' "$out" | sed 's/%(ext)s/mp4/')
echo "[download] Destination: $out"
printf 'fake media payload' > "$out"
`
	script = strings.ReplaceAll(script, "__FAILCODE__", strconv.Itoa(failCode))
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func withOptions(t *testing.T, modify func(*config.Options)) {
	t.Helper()
	saved := opts
	opts = config.Defaults()
	modify(&opts)
	t.Cleanup(func() { opts = saved })
}

func TestPrompterAsk(t *testing.T) {
	p := testPrompter("  https://youtu.be/abc  \nclip\n")
	url, err := p.ask("url? ")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc", url)

	name, err := p.ask("name? ")
	require.NoError(t, err)
	assert.Equal(t, "clip", name)

	rest, err := p.ask("more? ")
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestPrompterShowsQuestionOnlyWhenInteractive(t *testing.T) {
	var out strings.Builder
	p := &prompter{in: bufio.NewReader(strings.NewReader("x\n")), out: &out, interactive: true}
	_, err := p.ask("Paste video URL: ")
	require.NoError(t, err)
	assert.Equal(t, "Paste video URL: ", out.String())

	out.Reset()
	p = &prompter{in: bufio.NewReader(strings.NewReader("x\n")), out: &out}
	_, err = p.ask("Paste video URL: ")
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestResolveURL(t *testing.T) {
	url, err := resolveURL([]string{" https://example.com/v "}, testPrompter(""))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v", url)

	url, err = resolveURL(nil, testPrompter("https://example.com/piped\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/piped", url)

	_, err = resolveURL(nil, testPrompter(""))
	assert.ErrorIs(t, err, errNoURL)
}

func TestBuildReport(t *testing.T) {
	sel := selector.Selection{
		Fragments: 10,
		Speed:     8,
		Results: []probe.Result{
			{Fragments: 5, Elapsed: time.Second, Err: errors.New("exit status 1")},
			{Fragments: 10, Elapsed: 2 * time.Second, Bytes: 16 * 1024},
		},
	}
	report := buildReport("https://example.com/v", []string{"tv4play"}, sel)
	assert.Equal(t, 10, report.Fragments)
	require.Len(t, report.Probes, 2)
	assert.Equal(t, "exit status 1", report.Probes[0].Error)
	assert.Zero(t, report.Probes[0].Throughput)
	assert.Equal(t, 8.0, report.Probes[1].Throughput)
	assert.Equal(t, 2.0, report.Probes[1].Elapsed)
}

func TestRunDownloadEndToEnd(t *testing.T) {
	tool := fakeYtdlp(t, 0)
	scratch := t.TempDir()
	outDir := t.TempDir()
	withOptions(t, func(o *config.Options) {
		o.YtdlpPath = tool
		o.ScratchRoot = scratch
		o.Candidates = []int{2, 4}
		o.Output = filepath.Join(outDir, "clip")
	})

	code := runDownload([]string{"https://example.com/v"}, testPrompter(""))
	assert.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(outDir, "clip.mp4"))
	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunDownloadPropagatesExitCode(t *testing.T) {
	tool := fakeYtdlp(t, 7)
	withOptions(t, func(o *config.Options) {
		o.YtdlpPath = tool
		o.ScratchRoot = t.TempDir()
		o.Fragments = 3
		o.Output = filepath.Join(t.TempDir(), "clip.mp4")
	})

	assert.Equal(t, 7, runDownload([]string{"https://example.com/v"}, testPrompter("")))
}

func TestRunDownloadKeepsYtdlpStderrSeparate(t *testing.T) {
	tool := fakeYtdlp(t, 7)
	withOptions(t, func(o *config.Options) {
		o.YtdlpPath = tool
		o.ScratchRoot = t.TempDir()
		o.Fragments = 3
		o.Output = filepath.Join(t.TempDir(), "clip.mp4")
	})
	var stdout, stderr bytes.Buffer
	savedOut, savedErr := ytdlpStdout, ytdlpStderr
	ytdlpStdout, ytdlpStderr = &stdout, &stderr
	t.Cleanup(func() { ytdlpStdout, ytdlpStderr = savedOut, savedErr })

	assert.Equal(t, 7, runDownload([]string{"https://example.com/v"}, testPrompter("")))
	assert.Equal(t, "ERROR: fragment rejected\n", stderr.String())
	assert.NotContains(t, stdout.String(), "ERROR")
}

func TestExitStatus(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{"success", context.Background(), nil, 0},
		{"success after interrupt", cancelled, nil, 0},
		{"failure", context.Background(), errors.New("yt-dlp failed"), 1},
		{"interrupted", cancelled, errors.New("yt-dlp failed: signal: killed"), 130},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitStatus(tt.ctx, tt.err))
		})
	}
}

func TestRunDownloadRejectsBadOptions(t *testing.T) {
	withOptions(t, func(o *config.Options) {
		o.Candidates = []int{10, 5}
	})
	assert.Equal(t, 1, runDownload([]string{"https://example.com/v"}, testPrompter("")))
}

func TestRunDownloadNeedsURL(t *testing.T) {
	withOptions(t, func(o *config.Options) {})
	assert.Equal(t, 1, runDownload(nil, testPrompter("")))
}

func TestRootFlags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"output", "o"},
		{"fragments", ""},
		{"proxy", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := rootCmd.Flags().Lookup(tt.name)
			if flag == nil {
				flag = rootCmd.PersistentFlags().Lookup(tt.name)
			}
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
	// -f belongs to yt-dlp's format selection
	assert.Nil(t, rootCmd.Flags().ShorthandLookup("f"))
}
