// Package wordpress pushes catalog updates to the gallery's WordPress site.
package wordpress

import (
	"context"
	"fmt"

	"github.com/higherself/network-server/internal/integrations"
	"github.com/higherself/network-server/internal/the7space"
	"github.com/higherself/network-server/pkg/config"
	"github.com/higherself/network-server/pkg/logger"
)

// Client speaks to the WordPress REST bridge plugin.
type Client struct {
	base *integrations.Client
}

// New builds the WordPress client from config.
func New(cfg config.WordPressConfig, disabled bool, logg *logger.Logger) *Client {
	return &Client{base: integrations.NewClient(integrations.Params{
		Name:     "wordpress",
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

// TestConnection verifies the bridge plugin answers.
func (c *Client) TestConnection(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.base.GetJSON(ctx, "/wp-json/hsn/v1/status", &status); err != nil {
		return err
	}
	if status.Status != "ok" {
		return fmt.Errorf("wordpress bridge status %q", status.Status)
	}
	return nil
}

// PublishArtwork mirrors one catalog entry to the site.
func (c *Client) PublishArtwork(ctx context.Context, artwork the7space.Artwork) error {
	return c.base.PostJSON(ctx, "/wp-json/hsn/v1/artworks", artwork)
}

// PublishEvent mirrors one calendar entry to the site.
func (c *Client) PublishEvent(ctx context.Context, event the7space.Event) error {
	return c.base.PostJSON(ctx, "/wp-json/hsn/v1/events", event)
}

// Enabled reports whether publish calls will be made.
func (c *Client) Enabled() bool {
	return c.base.Enabled()
}
