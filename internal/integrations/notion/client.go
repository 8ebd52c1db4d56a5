// Package notion talks to the Notion sync bridge that mirrors site
// submissions into the team's Notion databases.
package notion

import (
	"context"

	"github.com/higherself/network-server/internal/integrations"
	"github.com/higherself/network-server/pkg/config"
	"github.com/higherself/network-server/pkg/logger"
)

// Client posts records to the sync bridge.
type Client struct {
	base *integrations.Client
}

// New builds the Notion sync client from config.
func New(cfg config.NotionConfig, disabled bool, logg *logger.Logger) *Client {
	return &Client{base: integrations.NewClient(integrations.Params{
		Name:     "notion",
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
		Disabled: disabled,
		Logger:   logg,
	})}
}

// NewWithBase wires a prebuilt base client, used by tests.
func NewWithBase(base *integrations.Client) *Client {
	return &Client{base: base}
}

type syncPayload struct {
	Database   string         `json:"database"`
	Properties map[string]any `json:"properties"`
}

// SyncRecord mirrors one record into the named Notion database.
func (c *Client) SyncRecord(ctx context.Context, database string, properties map[string]any) error {
	return c.base.PostJSON(ctx, "/v1/sync", syncPayload{
		Database:   database,
		Properties: properties,
	})
}

// Enabled reports whether sync calls will be made.
func (c *Client) Enabled() bool {
	return c.base.Enabled()
}
