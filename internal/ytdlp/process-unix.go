//go:build !windows

package ytdlp

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// killProcessGroup starts the child in its own process group so cancellation
// also reaches the ffmpeg children yt-dlp spawns.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
