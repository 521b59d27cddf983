package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/throneclash/video-service/internal/api/handler"
	"github.com/throneclash/video-service/internal/api/router"
	"github.com/throneclash/video-service/internal/config"
	"github.com/throneclash/video-service/internal/instagram"
	"github.com/throneclash/video-service/internal/queue"
	"github.com/throneclash/video-service/internal/render"
	"github.com/throneclash/video-service/internal/video"
	"github.com/throneclash/video-service/internal/worker"
	"github.com/throneclash/video-service/shared/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("VIDEO_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting video service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	if !cfg.Instagram.HasAnyCredentials() {
		appLogger.Warn("No Instagram credentials configured, publishing will fail")
	}

	// Initialize the rendering pipeline
	capturer := render.NewCommandCapturer(cfg.Video.CaptureCommand)
	engine := render.NewEngine(capturer, appLogger.Logger)

	processor, err := video.NewProcessor(&video.Config{
		OutputDir:        cfg.Video.OutputDir,
		AssetsDir:        cfg.Video.AssetsDir,
		TemplatePath:     cfg.Video.TemplatePath,
		FallbackAudioURL: cfg.Video.FallbackAudioURL,
		Engine:           engine,
		Logger:           appLogger.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize video pipeline: %w", err)
	}

	// Initialize the Instagram publisher
	publisher := instagram.NewPublisher(&instagram.Config{
		BR: instagram.Credentials{
			AccessToken: cfg.Instagram.AccessTokenBR,
			AccountID:   cfg.Instagram.AccountIDBR,
		},
		Global: instagram.Credentials{
			AccessToken: cfg.Instagram.AccessTokenGlobal,
			AccountID:   cfg.Instagram.AccountIDGlobal,
		},
		GraphAPIBaseURL: cfg.Instagram.GraphAPIBaseURL,
		VideoAPIBaseURL: cfg.Instagram.VideoAPIBaseURL,
		SettleDelay:     cfg.Instagram.SettleDelay,
		Logger:          appLogger.Logger,
	})

	// Initialize the job queue and worker
	jobQueue := queue.New(appLogger.Logger)
	jobWorker := worker.NewWorker(&worker.Config{
		Logger:    appLogger.Logger,
		Queue:     jobQueue,
		Pipeline:  processor,
		Publisher: publisher,
		LogsDir:   cfg.Video.LogsDir,
	})

	// Initialize router
	r := initRouter(cfg, appLogger.Logger, jobQueue, jobWorker)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("Video service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	// Let in-flight jobs reach a terminal state before exiting
	done := make(chan struct{})
	go func() {
		jobWorker.Wait()
		close(done)
	}()

	select {
	case <-done:
		appLogger.Info("All jobs finished")
	case <-time.After(cfg.Server.ShutdownTimeout):
		appLogger.Warn("Shutdown timeout exceeded with jobs still running")
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(cfg *config.Config, logger *slog.Logger, jobQueue *queue.Queue, jobWorker *worker.Worker) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	deps := &handler.Dependencies{
		Logger:     logger,
		Queue:      jobQueue,
		Dispatcher: jobWorker,
		AppVersion: cfg.App.Version,
	}

	return router.SetupRouter(deps)
}
