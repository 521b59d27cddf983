package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/throneclash/video-service/internal/api/dto"
	"github.com/throneclash/video-service/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:    "healthy",
			Version:   deps.AppVersion,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Initialize video handler
	videoHandler := handler.NewVideoHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		videos := v1.Group("/videos")
		{
			// POST /api/v1/videos/create - Generic submission (template discriminator)
			videos.POST("/create", videoHandler.CreateVideo)

			// POST /api/v1/videos/template-dynamic - Dynamic template submission
			videos.POST("/template-dynamic", videoHandler.CreateTemplateDynamic)

			// GET /api/v1/videos - List jobs with status filter and limit
			videos.GET("", videoHandler.ListVideos)

			// GET /api/v1/videos/:video_id - Get job state
			videos.GET("/:video_id", videoHandler.GetVideo)
		}
	}

	return r
}
