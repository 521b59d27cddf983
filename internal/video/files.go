package video

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DeleteFile removes a video file if it exists. Deleting a missing file is
// not an error; the return value reports whether a file was actually removed.
func DeleteFile(logger *slog.Logger, path string) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if err := os.Remove(path); err != nil {
		logger.Error("Failed to delete file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return false
	}
	logger.Info("File deleted", slog.String("path", path))
	return true
}

// WriteFailureLog persists the original request payload after an Instagram
// publish failure so the reel can be reconciled manually. Returns the path
// of the written log file.
func WriteFailureLog(logsDir, videoID, errMsg string, params Params) (string, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("failed_payload_%s_%s.txt", videoID, now.Format("20060102_150405"))
	path := filepath.Join(logsDir, filename)

	payload, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	var content []byte
	content = append(content, "=== INSTAGRAM INTEGRATION FAILURE ===\n"...)
	content = append(content, fmt.Sprintf("Timestamp: %s\n", now.Format(time.RFC3339))...)
	content = append(content, fmt.Sprintf("Video ID: %s\n", videoID)...)
	content = append(content, fmt.Sprintf("Error: %s\n", errMsg)...)
	content = append(content, "\n=== PAYLOAD ===\n"...)
	content = append(content, payload...)

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write failure log: %w", err)
	}
	return path, nil
}
