package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var mediaContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// inspectMediaFile resolves a media path, stats it, and derives its content
// type from the extension.
func inspectMediaFile(path string) (absPath string, size int64, contentType string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", 0, "", fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", 0, "", fmt.Errorf("file does not exist: %s", absPath)
		}
		return "", 0, "", fmt.Errorf("inspect file: %w", err)
	}
	if info.IsDir() {
		return "", 0, "", fmt.Errorf("%s is a directory", absPath)
	}

	ext := strings.ToLower(filepath.Ext(info.Name()))
	contentType, ok := mediaContentTypes[ext]
	if !ok {
		return "", 0, "", fmt.Errorf("unsupported file extension %q", ext)
	}
	return absPath, info.Size(), contentType, nil
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04:05")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
