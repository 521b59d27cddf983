package video

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/throneclash/video-service/internal/locale"
	"github.com/throneclash/video-service/internal/render"
)

// Target resolution for vertical reels
const (
	TargetWidth  = 1080
	TargetHeight = 1920
)

// Capture duration components. The opening frame (~5.5s) and closing frame
// (~4s) are always present; the dethroned-king and victims frames each add
// their own slot when their data is supplied.
const (
	baseDuration           = 10000 * time.Millisecond
	dethronedFrameAddition = 3500 * time.Millisecond
	victimsFrameAddition   = 3500 * time.Millisecond
)

// Renderer is the engine contract the pipeline invokes
type Renderer interface {
	Render(ctx context.Context, req render.Request) (string, error)
}

// Config holds the pipeline dependencies and directories
type Config struct {
	OutputDir        string
	AssetsDir        string
	TemplatePath     string
	FallbackAudioURL string
	Engine           Renderer
	HTTPClient       *http.Client
	Logger           *slog.Logger
}

// Processor renders dynamic-template videos into the output directory
type Processor struct {
	outputDir        string
	assetsDir        string
	fallbackAudioURL string
	tmpl             *template.Template
	engine           Renderer
	httpClient       *http.Client
	logger           *slog.Logger
}

// NewProcessor creates the pipeline, ensuring its directories exist and
// parsing the dynamic template
func NewProcessor(cfg *Config) (*Processor, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.MkdirAll(cfg.AssetsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}

	tmpl, err := template.ParseFiles(cfg.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}

	return &Processor{
		outputDir:        cfg.OutputDir,
		assetsDir:        cfg.AssetsDir,
		fallbackAudioURL: cfg.FallbackAudioURL,
		tmpl:             tmpl,
		engine:           cfg.Engine,
		httpClient:       httpClient,
		logger:           cfg.Logger,
	}, nil
}

// templateContext is what the dynamic template is executed with
type templateContext struct {
	Params
	Labels          locale.Labels
	FormattedAmount string
}

// Render runs the full pipeline for one request: audio selection, duration
// computation, template execution and the engine render. It never returns an
// error; every failure is converted into a failed Result and any partial
// output file is removed.
func (p *Processor) Render(ctx context.Context, params Params) Result {
	videoID := uuid.New().String()
	region := locale.Normalize(params.Region)
	params.Region = region

	filename := fmt.Sprintf("%s_%s.mp4", strings.ToLower(region), videoID)
	outputPath := filepath.Join(p.outputDir, filename)

	result := Result{
		VideoID:        videoID,
		Region:         region,
		KingName:       params.KingName,
		Amount:         locale.FormatCurrency(params.Amount, region),
		PersistFile:    params.PersistFile,
		OriginalParams: params,
	}

	audioPath := p.pickMusic(ctx)
	duration := CaptureDuration(params)

	p.logger.Info("Rendering dynamic template",
		slog.String("video_id", videoID),
		slog.String("region", region),
		slog.Duration("duration", duration),
		slog.String("output", outputPath),
	)

	html, err := p.renderTemplate(params)
	if err != nil {
		return p.fail(result, outputPath, err)
	}

	videoPath, err := p.engine.Render(ctx, render.Request{
		HTML:       html,
		OutputPath: outputPath,
		AudioPath:  audioPath,
		Width:      TargetWidth,
		Height:     TargetHeight,
		Duration:   duration,
	})
	if err != nil {
		return p.fail(result, outputPath, err)
	}

	result.Status = StatusCompleted
	result.VideoPath = videoPath
	return result
}

// fail marks the result failed and guarantees no partial file survives at
// the intended output path
func (p *Processor) fail(result Result, outputPath string, err error) Result {
	p.logger.Error("Video pipeline failed",
		slog.String("video_id", result.VideoID),
		slog.String("error", err.Error()),
	)
	DeleteFile(p.logger, outputPath)
	result.Status = StatusFailed
	result.VideoPath = ""
	result.Error = err.Error()
	return result
}

func (p *Processor) renderTemplate(params Params) (string, error) {
	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, templateContext{
		Params:          params,
		Labels:          locale.LabelsFor(params.Region),
		FormattedAmount: locale.FormatCurrency(params.Amount, params.Region),
	})
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// CaptureDuration computes the capture length from the content flags. The
// dethroned and victims frames are independent and additive.
func CaptureDuration(params Params) time.Duration {
	duration := baseDuration
	if params.DethronedName != "" {
		duration += dethronedFrameAddition
	}
	if len(params.Victims) > 0 {
		duration += victimsFrameAddition
	}
	return duration
}
