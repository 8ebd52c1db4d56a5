package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/higherself/network-server/internal/integrations/gateway"
	"github.com/higherself/network-server/internal/notifyretry"
	"github.com/higherself/network-server/pkg/config"
	"github.com/higherself/network-server/pkg/logger"
	"github.com/higherself/network-server/pkg/metrics"
	"github.com/higherself/network-server/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "notify-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "notify-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	// The worker replays parked payloads directly; it never re-parks through
	// Notify, so it gets no queue handle of its own.
	gatewayClient := gateway.New(cfg.Gateway, cfg.FeatureFlags.DisableWebhooks, nil, logg)

	worker, err := notifyretry.NewWorker(notifyretry.Params{
		Queue:     redisClient,
		Deliverer: gatewayClient,
		Metrics:   metrics.NewWorkerMetrics(prometheus.DefaultRegisterer),
		Logger:    logg,
		Interval:  cfg.Worker.PollInterval,
		BatchSize: cfg.Worker.BatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create retry worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"poll_interval": cfg.Worker.PollInterval.String(),
	})
	logg.Info(ctx, "starting notify worker")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "notify worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "notify worker shutting down gracefully")
}
