package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/stockroomhq/stockroom-backend/internal/images/consumer"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/pubsub"
	"github.com/stockroomhq/stockroom-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "image-cleanup-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "image-cleanup-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	cleanupConsumer, err := consumer.NewCleanupConsumer(
		gcsClient,
		pubsubClient.ImageCleanupSubscription(),
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create cleanup consumer", err)
		os.Exit(1)
	}

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"subscription": cfg.PubSub.ImageCleanupSubscription,
	})
	logg.Info(runCtx, "image cleanup worker started")

	if err := cleanupConsumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "image cleanup worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(runCtx, "image cleanup worker stopped")
}
