package handler

import (
	"log/slog"

	"github.com/throneclash/video-service/internal/queue"
)

// Dispatcher hands a job off to the background worker
type Dispatcher interface {
	Dispatch(jobID string)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger     *slog.Logger
	Queue      *queue.Queue
	Dispatcher Dispatcher
	AppVersion string
}

// VideoHandler handles video-job HTTP requests
type VideoHandler struct {
	logger     *slog.Logger
	queue      *queue.Queue
	dispatcher Dispatcher
}

// NewVideoHandler creates a new VideoHandler instance
func NewVideoHandler(deps *Dependencies) *VideoHandler {
	return &VideoHandler{
		logger:     deps.Logger,
		queue:      deps.Queue,
		dispatcher: deps.Dispatcher,
	}
}
