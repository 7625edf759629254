package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanq16/ytune/internal/probe"
)

// FormatBytes converts bytes to human-readable format
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func FormatKBps(kbps float64) string {
	return fmt.Sprintf("%.1f KB/s", kbps)
}

// ProbeLine renders one probe outcome as an indented status line.
func ProbeLine(r probe.Result) string {
	indent := strings.Repeat(" ", 2)
	elapsed := r.Elapsed.Round(100 * time.Millisecond).String()
	if r.Err != nil || r.Throughput() == 0 {
		return fmt.Sprintf("%s%s %s %s", indent, FError(StyleSymbols["fail"]),
			FDebug(elapsed), FError(fmt.Sprintf("Failed with %d fragments", r.Fragments)))
	}
	return fmt.Sprintf("%s%s %s %s %s %s", indent, FSuccess(StyleSymbols["pass"]),
		FDebug(elapsed), FSuccess(fmt.Sprintf("%d fragments", r.Fragments)),
		FDebug(StyleSymbols["bullet"]),
		FDetail(fmt.Sprintf("%s in %s", FormatBytes(uint64(r.Bytes)), FormatKBps(r.Throughput()))))
}
