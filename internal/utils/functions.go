package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Clean removes leftover probe scratch directories under scratchRoot and the
// yt-dlp tool directory under toolRoot. It returns the paths it removed.
func Clean(scratchRoot, toolRoot string) ([]string, error) {
	var removed []string
	entries, err := os.ReadDir(scratchRoot)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading scratch root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), ScratchPrefix) {
			continue
		}
		path := filepath.Join(scratchRoot, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("error removing %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	toolDir := filepath.Join(toolRoot, ToolDir)
	if _, err := os.Stat(toolDir); err == nil {
		if err := os.RemoveAll(toolDir); err != nil {
			return removed, fmt.Errorf("error removing %s: %w", toolDir, err)
		}
		removed = append(removed, toolDir)
	}
	return removed, nil
}

// DirSize sums the sizes of all regular files below root.
func DirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
