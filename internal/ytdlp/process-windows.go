//go:build windows

package ytdlp

import "os/exec"

// Windows has no process groups to signal; WaitDelay bounds the wait instead.
func killProcessGroup(cmd *exec.Cmd) {}
