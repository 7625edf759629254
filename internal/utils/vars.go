package utils

const (
	// ToolDir holds a downloaded yt-dlp binary when none is installed.
	ToolDir = ".ytune-temp"
	// ScratchPrefix names per-probe scratch directories.
	ScratchPrefix = "ytune-probe-"
	ToolUserAgent = "ytune/1337"
)
