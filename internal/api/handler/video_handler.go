package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/throneclash/video-service/internal/api/dto"
	"github.com/throneclash/video-service/internal/queue"
)

// CreateVideo handles POST /api/v1/videos/create
// Generic submission endpoint; only the DYNAMIC template (legacy alias "E")
// is supported.
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req dto.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	template := strings.ToUpper(req.Template)
	if template != "DYNAMIC" && template != "E" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Only 'DYNAMIC' template supported.",
		})
		return
	}

	h.acceptJob(c, "DYNAMIC", req.Params)
}

// CreateTemplateDynamic handles POST /api/v1/videos/template-dynamic
// Direct submission of dynamic-template parameters
func (h *VideoHandler) CreateTemplateDynamic(c *gin.Context) {
	var params dto.TemplateDynamicParams
	if err := c.ShouldBindJSON(&params); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	h.acceptJob(c, "DYNAMIC", params)
}

// acceptJob registers the job and dispatches it to the background worker,
// answering 202 immediately
func (h *VideoHandler) acceptJob(c *gin.Context, template string, payload dto.TemplateDynamicParams) {
	params := payload.ToParams()

	// The publish query parameter can force-disable Instagram publishing
	// for a single submission.
	if publishQuery := c.Query("publish"); publishQuery != "" {
		if publish, err := strconv.ParseBool(publishQuery); err == nil && !publish {
			params.PublishInstagram = false
		}
	}

	jobID := uuid.New().String()
	h.queue.Add(queue.NewJob(jobID, template, params))
	h.dispatcher.Dispatch(jobID)

	h.logger.Info("Job accepted",
		slog.String("job_id", jobID),
		slog.String("region", params.Region),
		slog.Bool("publish_instagram", params.PublishInstagram),
	)

	c.JSON(http.StatusAccepted, dto.CreateVideoResponse{
		Status:  "ok",
		Message: "Job accepted",
		VideoID: jobID,
	})
}

// GetVideo handles GET /api/v1/videos/:video_id
// Returns the full job state for a submission
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID := c.Param("video_id")

	snapshot, err := h.queue.Snapshot(videoID)
	if err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to get job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// ListVideos handles GET /api/v1/videos
// Lists jobs optionally filtered by status, truncated to limit
func (h *VideoHandler) ListVideos(c *gin.Context) {
	statusFilter := c.Query("status_filter")

	limit := 100
	if limitQuery := c.Query("limit"); limitQuery != "" {
		parsed, err := strconv.Atoi(limitQuery)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}

	total, jobs := h.queue.List(statusFilter, limit)
	c.JSON(http.StatusOK, dto.ListVideosResponse{
		Total: total,
		Jobs:  jobs,
	})
}
