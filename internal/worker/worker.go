package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/throneclash/video-service/internal/instagram"
	"github.com/throneclash/video-service/internal/queue"
	"github.com/throneclash/video-service/internal/video"
)

// Pipeline is the video-rendering contract the worker drives
type Pipeline interface {
	Render(ctx context.Context, params video.Params) video.Result
}

// Publisher is the Instagram-publishing contract the worker drives
type Publisher interface {
	Publish(ctx context.Context, result video.Result) instagram.Outcome
}

// Config holds worker dependencies
type Config struct {
	Logger    *slog.Logger
	Queue     *queue.Queue
	Pipeline  Pipeline
	Publisher Publisher
	LogsDir   string
}

// Worker drives jobs end-to-end: render, conditional publish, file
// retention. Each job runs on its own goroutine; there is no internal
// parallelism within a job and no retry.
type Worker struct {
	logger    *slog.Logger
	queue     *queue.Queue
	pipeline  Pipeline
	publisher Publisher
	logsDir   string
	wg        sync.WaitGroup
}

// NewWorker creates a worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:    cfg.Logger,
		queue:     cfg.Queue,
		pipeline:  cfg.Pipeline,
		publisher: cfg.Publisher,
		logsDir:   cfg.LogsDir,
	}
}

// Dispatch runs the job on a background goroutine and returns immediately.
// Errors never cross the goroutine boundary; they surface only through the
// job's state in the queue.
func (w *Worker) Dispatch(jobID string) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.processJob(context.Background(), jobID)
	}()
}

// Wait blocks until every dispatched job reaches a terminal state
func (w *Worker) Wait() {
	w.wg.Wait()
}

// processJob drives a single job through the state machine:
// pending -> processing -> {completed -> published, completed, failed}
func (w *Worker) processJob(ctx context.Context, jobID string) {
	w.logger.Info("Processing job", slog.String("job_id", jobID))

	job, err := w.queue.Get(jobID)
	if err != nil {
		w.logger.Error("Job not found in queue", slog.String("job_id", jobID))
		return
	}

	// A rendered file must never leak on the failure path, whatever goes
	// wrong after its path is known.
	var videoPath string
	defer func() {
		if r := recover(); r != nil {
			errMsg := fmt.Sprintf("panic: %v", r)
			w.logger.Error("Job orchestration panicked",
				slog.String("job_id", jobID),
				slog.String("error", errMsg),
			)
			video.DeleteFile(w.logger, videoPath)
			_ = w.queue.UpdateStatus(jobID, queue.JobStatusFailed, errMsg, nil)
		}
	}()

	if err := w.queue.UpdateStatus(jobID, queue.JobStatusProcessing, "", nil); err != nil {
		w.logger.Error("Failed to mark job processing",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	result := w.pipeline.Render(ctx, job.Params)
	videoPath = result.VideoPath

	if !result.Completed() {
		_ = w.queue.UpdateStatus(jobID, queue.JobStatusFailed, result.Error, nil)
		return
	}

	if err := w.queue.UpdateStatus(jobID, queue.JobStatusCompleted, "", result.AsMap()); err != nil {
		w.logger.Error("Failed to mark job completed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}

	if !job.Params.PublishInstagram {
		w.retainOrDelete(result)
		return
	}

	w.logger.Info("Publishing to Instagram",
		slog.String("job_id", jobID),
		slog.String("region", result.Region),
	)

	outcome := w.publisher.Publish(ctx, result)
	if outcome.Success {
		published := result.AsMap()
		published["published_id"] = outcome.PublishedID
		_ = w.queue.UpdateStatus(jobID, queue.JobStatusPublished, "", published)
		w.retainOrDelete(result)
		return
	}

	// Publish failure: persist the payload for manual reconciliation, then
	// discard the artifact. A reel that cannot be retried has no further
	// use, so persist_file does not apply here.
	logPath, err := video.WriteFailureLog(w.logsDir, result.VideoID, outcome.Error, job.Params)
	if err != nil {
		w.logger.Error("Failed to write failure log",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	} else {
		w.logger.Info("Failure payload persisted",
			slog.String("job_id", jobID),
			slog.String("path", logPath),
		)
	}

	_ = w.queue.UpdateStatus(jobID, queue.JobStatusFailed, outcome.Error, nil)
	video.DeleteFile(w.logger, result.VideoPath)
}

// retainOrDelete applies the per-job persist_file retention policy
func (w *Worker) retainOrDelete(result video.Result) {
	if result.PersistFile {
		w.logger.Info("Retaining video file",
			slog.String("video_id", result.VideoID),
			slog.String("path", result.VideoPath),
		)
		return
	}
	video.DeleteFile(w.logger, result.VideoPath)
}
