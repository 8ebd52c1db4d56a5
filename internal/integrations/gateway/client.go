// Package gateway delivers notification events to the messaging gateway.
// Deliveries that fail are parked in a redis list and replayed by the
// notify worker.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/higherself/network-server/internal/integrations"
	"github.com/higherself/network-server/pkg/config"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
	"github.com/higherself/network-server/pkg/logger"
)

// QueueName is the redis retry queue for failed gateway deliveries.
const QueueName = "gateway"

// retryQueue is the slice of the redis client used to park failed payloads.
type retryQueue interface {
	EnqueueRetry(ctx context.Context, queue string, payload string) error
}

// Notification is one outbound message to the gateway.
type Notification struct {
	Channel  string         `json:"channel"`
	Subject  string         `json:"subject"`
	Body     string         `json:"body"`
	Metadata map[string]any `json:"metadata,omitempty"`
	SentAt   time.Time      `json:"sent_at"`
}

// Client posts notifications and parks failures for retry.
type Client struct {
	base  *integrations.Client
	queue retryQueue
	logg  *logger.Logger
	now   func() time.Time
}

// New builds the gateway notifier from config. queue may be nil, in which
// case failed payloads are dropped after logging.
func New(cfg config.GatewayConfig, disabled bool, queue retryQueue, logg *logger.Logger) *Client {
	return &Client{
		base: integrations.NewClient(integrations.Params{
			Name:     "gateway",
			BaseURL:  cfg.BaseURL,
			APIKey:   cfg.APIKey,
			Timeout:  cfg.Timeout,
			Disabled: disabled,
			Logger:   logg,
		}),
		queue: queue,
		logg:  logg,
		now:   time.Now,
	}
}

// NewWithBase wires a prebuilt base client, used by tests.
func NewWithBase(base *integrations.Client, queue retryQueue, logg *logger.Logger) *Client {
	return &Client{base: base, queue: queue, logg: logg, now: time.Now}
}

// Notify sends the notification. Delivery failures are parked for retry and
// reported as nil so callers on the request path never bounce.
func (c *Client) Notify(ctx context.Context, n Notification) error {
	if n.SentAt.IsZero() {
		n.SentAt = c.now().UTC()
	}
	err := c.base.PostJSON(ctx, "/v1/notifications", n)
	if err == nil {
		return nil
	}
	if errors.Is(err, integrations.ErrDisabled) {
		return nil
	}
	if pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		c.park(ctx, n)
		return nil
	}
	return err
}

// Deliver re-posts a previously parked raw payload. Unlike Notify it
// surfaces delivery failures so the worker can decide to re-park.
func (c *Client) Deliver(ctx context.Context, raw string) error {
	var n Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode parked notification")
	}
	return c.base.PostJSON(ctx, "/v1/notifications", n)
}

// Enabled reports whether deliveries will be attempted.
func (c *Client) Enabled() bool {
	return c.base.Enabled()
}

func (c *Client) park(ctx context.Context, n Notification) {
	if c.queue == nil {
		return
	}
	raw, err := json.Marshal(n)
	if err != nil {
		c.warn(ctx, "encode parked notification failed", err)
		return
	}
	if err := c.queue.EnqueueRetry(ctx, QueueName, string(raw)); err != nil {
		c.warn(ctx, "parking failed notification failed", err)
		return
	}
	if c.logg != nil {
		c.logg.Info(c.logg.WithIntegration(ctx, "gateway"), "notification parked for retry")
	}
}

func (c *Client) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithIntegration(ctx, "gateway")
	ctx = c.logg.WithField(ctx, "reason", err.Error())
	c.logg.Warn(ctx, msg)
}
