package video

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
)

// fallbackAudioFilename is where the remote fallback track is cached
const fallbackAudioFilename = "default_epic.mp3"

// pickMusic selects a background track: a uniformly random mp3 from the
// assets directory, else the remote fallback fetched and cached locally,
// else nothing. A silent video is acceptable, so this never fails the
// pipeline.
func (p *Processor) pickMusic(ctx context.Context) string {
	tracks, err := filepath.Glob(filepath.Join(p.assetsDir, "*.mp3"))
	if err == nil && len(tracks) > 0 {
		selected := tracks[rand.IntN(len(tracks))]
		p.logger.Info("Background track selected",
			slog.String("track", selected),
			slog.Int("available", len(tracks)),
		)
		return selected
	}

	if p.fallbackAudioURL == "" {
		p.logger.Warn("No audio assets available, rendering silent video")
		return ""
	}

	dest := filepath.Join(p.assetsDir, fallbackAudioFilename)
	if err := p.fetchFallbackAudio(ctx, dest); err != nil {
		p.logger.Warn("Fallback audio fetch failed, rendering silent video",
			slog.String("error", err.Error()),
		)
		return ""
	}

	p.logger.Info("Fallback audio cached", slog.String("track", dest))
	return dest
}

// fetchFallbackAudio downloads the known fallback track into the assets
// directory so later jobs pick it up from disk
func (p *Processor) fetchFallbackAudio(ctx context.Context, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.fallbackAudioURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download fallback audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}
