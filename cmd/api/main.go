package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acantarero/news-server/internal/api"
	"github.com/acantarero/news-server/internal/config"
	"github.com/acantarero/news-server/internal/logger"
	"github.com/acantarero/news-server/internal/repository"
	"github.com/acantarero/news-server/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		LogFile:     cfg.Log.File,
		ServiceName: "news-server",
		MaxSizeMB:   100,
		MaxBackups:  7,
		MaxAgeDays:  30,
	})
	logger.SetDefaultLogger(appLogger)

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	articleRepo := repository.NewArticleRepository(db)
	userRepo := repository.NewUserRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)

	servedRepo, err := repository.NewServedRepository(&cfg.Redis)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize served tracker")
	}
	defer servedRepo.Close()

	// Initialize services
	learnService := service.NewLearnService(userRepo, articleRepo, engagementRepo, &service.LearnConfig{
		Workers:   cfg.Learn.Workers,
		QueueSize: cfg.Learn.QueueSize,
	})
	serveService := service.NewServeService(userRepo, articleRepo, servedRepo, cfg.Learn.ServedTTL)
	userService := service.NewUserService(userRepo)

	// Learning runs detached from submissions; its outcomes are only
	// observable here.
	go func() {
		for result := range learnService.Results() {
			entry := appLogger.WithFields(logger.Fields{
				logger.FieldComponent:  "learn",
				logger.FieldUserID:     result.UserID,
				logger.FieldCount:      result.Events,
				logger.FieldDurationMs: result.Duration.Milliseconds(),
			})
			if result.Err != nil {
				entry.WithError(result.Err).Error("Learn task failed")
			} else {
				entry.Info("Learn task completed")
			}
		}
	}()

	// Setup router
	router := api.SetupRouter(serveService, learnService, userService, cfg, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	// Drain in-flight learning before exit
	learnService.Stop()

	appLogger.Info("Server exited")
}
