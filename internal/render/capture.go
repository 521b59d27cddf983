package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// CommandCapturer drives the external headless-browser capture tool. The
// tool owns the browser session and its own temporary files; this adapter
// only hands it the staged HTML and the raw output path.
type CommandCapturer struct {
	binaryPath string
}

// NewCommandCapturer creates a capturer around the given binary
func NewCommandCapturer(binaryPath string) *CommandCapturer {
	return &CommandCapturer{binaryPath: binaryPath}
}

// Capture records the page for the full duration into rawPath
func (c *CommandCapturer) Capture(ctx context.Context, htmlPath, rawPath string, width, height int, duration time.Duration) error {
	cmd := exec.CommandContext(ctx, c.binaryPath,
		"--html", htmlPath,
		"--out", rawPath,
		"--width", strconv.Itoa(width),
		"--height", strconv.Itoa(height),
		"--duration-ms", strconv.FormatInt(duration.Milliseconds(), 10),
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("capture tool failed: %w, stderr: %s", err, stderr.String())
	}
	return nil
}
