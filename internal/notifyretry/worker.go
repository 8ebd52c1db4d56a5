// Package notifyretry drains the failed-notification queue and replays
// parked payloads through the gateway.
package notifyretry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/higherself/network-server/internal/integrations/gateway"
	"github.com/higherself/network-server/pkg/logger"
	"github.com/higherself/network-server/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const jobName = "notify_retry"

// queue is the slice of the redis client the worker drains.
type queue interface {
	DequeueRetry(ctx context.Context, queue string) (string, error)
	EnqueueRetry(ctx context.Context, queue string, payload string) error
	RetryQueueLen(ctx context.Context, queue string) (int64, error)
}

// deliverer re-posts a parked payload.
type deliverer interface {
	Deliver(ctx context.Context, raw string) error
}

// Worker polls the retry queue at a fixed interval.
type Worker struct {
	queue     queue
	deliverer deliverer
	metrics   *metrics.WorkerMetrics
	logg      *logger.Logger
	interval  time.Duration
	batchSize int
}

// Params bundles the worker dependencies.
type Params struct {
	Queue     queue
	Deliverer deliverer
	Metrics   *metrics.WorkerMetrics
	Logger    *logger.Logger
	Interval  time.Duration
	BatchSize int
}

// NewWorker builds a retry worker.
func NewWorker(params Params) (*Worker, error) {
	if params.Queue == nil {
		return nil, fmt.Errorf("retry queue is required")
	}
	if params.Deliverer == nil {
		return nil, fmt.Errorf("deliverer is required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = 20
	}
	return &Worker{
		queue:     params.Queue,
		deliverer: params.Deliverer,
		metrics:   params.Metrics,
		logg:      params.Logger,
		interval:  interval,
		batchSize: batch,
	}, nil
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain replays up to batchSize parked payloads. The first delivery failure
// re-parks the payload and ends the pass; the gateway is likely still down.
func (w *Worker) drain(ctx context.Context) {
	start := time.Now()
	delivered := 0
	defer func() {
		w.metrics.ObserveDuration(jobName, time.Since(start))
		if delivered > 0 && w.logg != nil {
			w.logg.Info(w.logg.WithField(ctx, "delivered", delivered), "replayed parked notifications")
		}
	}()

	for i := 0; i < w.batchSize; i++ {
		payload, err := w.queue.DequeueRetry(ctx, gateway.QueueName)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return
			}
			w.metrics.IncFailure(jobName)
			w.warn(ctx, "dequeue failed", err)
			return
		}

		if err := w.deliverer.Deliver(ctx, payload); err != nil {
			w.metrics.IncFailure(jobName)
			w.warn(ctx, "replay failed", err)
			if reErr := w.queue.EnqueueRetry(ctx, gateway.QueueName, payload); reErr != nil {
				w.warn(ctx, "re-parking payload failed", reErr)
			}
			return
		}
		w.metrics.IncSuccess(jobName)
		delivered++
	}
}

func (w *Worker) warn(ctx context.Context, msg string, err error) {
	if w.logg == nil {
		return
	}
	w.logg.Warn(w.logg.WithField(ctx, "reason", err.Error()), msg)
}
