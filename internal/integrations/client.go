// Package integrations holds the shared plumbing for outbound HTTP calls to
// partner systems. Individual clients live in subpackages.
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/higherself/network-server/pkg/errors"
	"github.com/higherself/network-server/pkg/logger"
)

// ErrDisabled is returned when webhooks are switched off by configuration.
var ErrDisabled = pkgerrors.New(pkgerrors.CodeDependency, "outbound webhooks disabled")

// HTTPDoer is the slice of http.Client the base client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the common base for outbound integration clients: fixed timeout,
// bearer API key, JSON bodies.
type Client struct {
	name     string
	baseURL  string
	apiKey   string
	http     HTTPDoer
	logg     *logger.Logger
	disabled bool
}

// Params configures a base integration client.
type Params struct {
	Name     string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Disabled bool
	Logger   *logger.Logger

	// HTTP overrides the default client, used by tests.
	HTTP HTTPDoer
}

// NewClient builds a base client. A missing base URL marks the client
// disabled rather than failing startup.
func NewClient(params Params) *Client {
	doer := params.HTTP
	if doer == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		doer = &http.Client{Timeout: timeout}
	}
	return &Client{
		name:     params.Name,
		baseURL:  strings.TrimRight(params.BaseURL, "/"),
		apiKey:   params.APIKey,
		http:     doer,
		logg:     params.Logger,
		disabled: params.Disabled || params.BaseURL == "",
	}
}

// Enabled reports whether outbound calls will actually be made.
func (c *Client) Enabled() bool {
	return !c.disabled
}

// Name identifies the client in logs.
func (c *Client) Name() string {
	return c.name
}

// PostJSON sends a JSON payload and discards the response body.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) error {
	return c.do(ctx, http.MethodPost, path, payload, nil)
}

// GetJSON fetches and decodes a JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if c.disabled {
		return ErrDisabled
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.warn(ctx, path, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s request failed", c.name))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%s returned %d: %s", c.name, resp.StatusCode, strings.TrimSpace(string(snippet)))
		c.warn(ctx, path, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s rejected request", c.name))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", c.name))
		}
	}
	return nil
}

func (c *Client) warn(ctx context.Context, path string, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithIntegration(ctx, c.name)
	ctx = c.logg.WithFields(ctx, map[string]any{
		"path":   path,
		"reason": err.Error(),
	})
	c.logg.Warn(ctx, "outbound call failed")
}
