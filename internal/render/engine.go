package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Request describes one render: HTML content captured at the given
// resolution for the given duration, optionally muxed with an audio track.
type Request struct {
	HTML       string
	OutputPath string
	AudioPath  string
	Width      int
	Height     int
	Duration   time.Duration
}

// Capturer records the rendered HTML page into a raw video file. The
// headless-browser implementation lives outside this module; the engine only
// depends on this contract.
type Capturer interface {
	Capture(ctx context.Context, htmlPath, rawPath string, width, height int, duration time.Duration) error
}

// Engine turns HTML content into a final encoded video: it stages the HTML
// on disk, drives the Capturer, then re-encodes the capture with ffmpeg so
// the result plays on consumer apps. When ffmpeg is unavailable the raw
// capture is delivered unchanged instead of failing the render.
type Engine struct {
	capturer   Capturer
	ffmpegPath string
	logger     *slog.Logger
}

// NewEngine creates an engine around the given capturer. ffmpeg is resolved
// from PATH once at construction; an empty path enables the pass-through
// fallback.
func NewEngine(capturer Capturer, logger *slog.Logger) *Engine {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		logger.Warn("ffmpeg not found in PATH, videos will be delivered without audio")
		ffmpegPath = ""
	}

	return &Engine{
		capturer:   capturer,
		ffmpegPath: ffmpegPath,
		logger:     logger,
	}
}

// Render produces the final video at req.OutputPath. On failure no file is
// left at the output path and temporary artifacts are removed.
func (e *Engine) Render(ctx context.Context, req Request) (string, error) {
	outputPath, err := filepath.Abs(req.OutputPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}

	outputDir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	tempHTMLPath := filepath.Join(outputDir, "temp_"+base+".html")
	rawPath := filepath.Join(outputDir, "raw_"+base)

	if err := os.WriteFile(tempHTMLPath, []byte(req.HTML), 0644); err != nil {
		return "", fmt.Errorf("failed to stage html: %w", err)
	}

	e.logger.Info("Capturing render",
		slog.String("output", outputPath),
		slog.Duration("duration", req.Duration),
	)

	if err := e.capturer.Capture(ctx, tempHTMLPath, rawPath, req.Width, req.Height, req.Duration); err != nil {
		e.cleanup(tempHTMLPath, rawPath, outputPath)
		return "", fmt.Errorf("capture failed: %w", err)
	}

	if e.ffmpegPath == "" {
		// Pass-through: deliver the unmuxed capture rather than failing.
		if err := replaceFile(rawPath, outputPath); err != nil {
			e.cleanup(tempHTMLPath, rawPath, outputPath)
			return "", fmt.Errorf("failed to deliver raw capture: %w", err)
		}
		os.Remove(tempHTMLPath)
		return outputPath, nil
	}

	if err := e.mux(ctx, rawPath, req.AudioPath, outputPath); err != nil {
		e.logger.Error("ffmpeg encode failed, delivering raw capture",
			slog.String("error", err.Error()),
		)
		if renameErr := replaceFile(rawPath, outputPath); renameErr != nil {
			e.cleanup(tempHTMLPath, rawPath, outputPath)
			return "", fmt.Errorf("encode failed and raw fallback failed: %w", renameErr)
		}
		os.Remove(tempHTMLPath)
		return outputPath, nil
	}

	os.Remove(rawPath)
	os.Remove(tempHTMLPath)

	e.logger.Info("Render complete", slog.String("output", outputPath))
	return outputPath, nil
}

// mux re-encodes the raw capture with deterministic settings (constant
// 60 FPS, H.264/AAC, faststart) and maps in the audio track when present
func (e *Engine) mux(ctx context.Context, rawPath, audioPath, outputPath string) error {
	args := []string{
		"-y",
		"-ss", "0.05",
		"-r", "60",
		"-i", rawPath,
	}

	hasAudio := false
	if audioPath != "" {
		if _, err := os.Stat(audioPath); err == nil {
			hasAudio = true
		}
	}
	if hasAudio {
		args = append(args,
			"-i", audioPath,
			"-map", "0:v:0", "-map", "1:a:0", "-shortest",
		)
	}

	args = append(args,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-vf", "fps=60",
		"-pix_fmt", "yuv420p",
		"-preset", "slow",
		"-crf", "18",
		"-g", "60",
		"-bf", "2",
		"-movflags", "+faststart",
		outputPath,
	)

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	if err := cmd.Run(); err != nil {
		// A partial encode must not survive; the raw fallback replaces it.
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

func (e *Engine) cleanup(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		os.Remove(path)
	}
}

// replaceFile moves src over dst, removing any existing dst first
func replaceFile(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}
	return os.Rename(src, dst)
}
