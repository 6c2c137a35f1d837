package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acantarero/news-server/internal/config"
	"github.com/acantarero/news-server/internal/domain"
	"github.com/acantarero/news-server/internal/feed"
	"github.com/acantarero/news-server/internal/logger"
	"github.com/acantarero/news-server/internal/repository"
	"github.com/robfig/cron/v3"
)

func main() {
	once := flag.Bool("once", false, "run a single ingest pass and exit")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		LogFile:     cfg.Log.File,
		ServiceName: "news-ingest",
	})
	logger.SetDefaultLogger(appLogger)

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	articleRepo := repository.NewArticleRepository(db)
	sourceRepo := repository.NewSourceRepository(db)
	jobRepo := repository.NewJobRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sourceRepo.Seed(ctx, cfg.Feeds.URLs); err != nil {
		appLogger.WithError(err).Fatal("Failed to seed feed sources")
	}

	fetcher := feed.NewFetcher(cfg.Feeds.FetchTimeout)
	classifier := feed.NewTextRazorClassifier(cfg.Feeds.Topics.APIURL, cfg.Feeds.Topics.APIKey)
	ingestor := feed.NewIngestor(fetcher, classifier, articleRepo, cfg.Feeds.MinTextLen)

	pass := func() {
		urls, err := sourceRepo.ListEnabled(ctx)
		if err != nil {
			appLogger.WithError(err).Error("Failed to list feed sources")
			return
		}
		if len(urls) == 0 {
			appLogger.Warn("No enabled feed sources, skipping pass")
			return
		}

		job, err := jobRepo.Start(ctx)
		if err != nil {
			appLogger.WithError(err).Error("Failed to record ingest job")
			return
		}

		stats := ingestor.Run(ctx, urls)

		job.Feeds = stats.Feeds
		job.Items = stats.Items
		job.Stored = stats.Stored
		job.Skipped = stats.Skipped
		job.Failed = stats.Failed
		job.Status = domain.JobStatusCompleted
		if stats.Feeds == 0 {
			job.Status = domain.JobStatusFailed
			job.ErrorMessage = "no feeds fetched"
		}
		if err := jobRepo.Finish(ctx, job); err != nil {
			appLogger.WithError(err).Error("Failed to finalize ingest job")
		}
		if err := sourceRepo.TouchFetched(ctx, urls, time.Now().UTC()); err != nil {
			appLogger.WithError(err).Error("Failed to stamp feed sources")
		}
	}

	if *once {
		pass()
		return
	}

	appLogger.WithField("schedule", cfg.Feeds.Schedule).Info("Starting feed ingest scheduler")

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Feeds.Schedule, pass); err != nil {
		appLogger.WithError(err).Fatal("Invalid ingest schedule")
	}

	// First pass immediately, then on schedule
	pass()
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down ingest...")
	cancel()
	<-scheduler.Stop().Done()
	appLogger.Info("Ingest exited")
}
