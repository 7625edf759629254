package ytdlp

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytune/internal/utils"
)

const releaseURL = "https://github.com/yt-dlp/yt-dlp/releases/latest/download/%s"

// Ensure locates a yt-dlp binary: an explicit path first, then PATH, then next to
// the running executable, and finally a release binary fetched into utils.ToolDir
// through proxy when one is given.
func Ensure(explicit, proxy string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("yt-dlp not found at %s: %w", explicit, err)
		}
		return explicit, nil
	}
	path, err := exec.LookPath("yt-dlp")
	if err == nil {
		return path, nil
	}
	execPath, err := os.Executable()
	if err == nil {
		local := filepath.Join(filepath.Dir(execPath), binaryName(runtime.GOOS))
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}
	cached := filepath.Join(utils.ToolDir, binaryName(runtime.GOOS))
	if _, err := os.Stat(cached); err == nil {
		return cached, nil
	}
	return download(runtime.GOOS, runtime.GOARCH, proxy)
}

func binaryName(goos string) string {
	if goos == "windows" {
		return "yt-dlp.exe"
	}
	return "yt-dlp"
}

func releaseAsset(goos, goarch string) (string, error) {
	switch {
	case goos == "windows" && goarch == "amd64":
		return "yt-dlp.exe", nil
	case goos == "windows" && goarch == "arm64":
		return "yt-dlp_arm64.exe", nil
	case goos == "linux" && goarch == "amd64":
		return "yt-dlp_linux", nil
	case goos == "linux" && goarch == "arm64":
		return "yt-dlp_linux_aarch64", nil
	case goos == "darwin":
		return "yt-dlp_macos", nil
	default:
		return "", fmt.Errorf("unsupported OS/arch: %s/%s", goos, goarch)
	}
}

func download(goos, goarch, proxy string) (string, error) {
	asset, err := releaseAsset(goos, goarch)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(utils.ToolDir, 0755); err != nil {
		return "", fmt.Errorf("error creating tool directory: %w", err)
	}
	filePath := filepath.Join(utils.ToolDir, binaryName(goos))
	log.Info().Str("op", "ytdlp/ensure").Msgf("yt-dlp not installed, fetching %s", asset)
	if err := downloadFile(fmt.Sprintf(releaseURL, asset), filePath, proxy); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("error downloading yt-dlp: %w", err)
	}
	if goos != "windows" {
		if err := os.Chmod(filePath, 0755); err != nil {
			return "", fmt.Errorf("error setting permissions: %w", err)
		}
	}
	return filePath, nil
}

func downloadFile(url, filePath, proxy string) error {
	client := utils.NewHTTPClient(utils.HTTPClientConfig{Timeout: 5 * time.Minute, ProxyURL: proxy})
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}
	out, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}
