//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
	"github.com/wildwarden/buzzer-relay/internal/version"
)

// maxBodySize caps the status response read into memory.
const maxBodySize = 1 << 20

// Client reads the buzzer status from the remote service.
type Client struct {
	// httpClient performs the requests.
	httpClient *http.Client
	// url is the status endpoint.
	url string

	// callTimeout bounds a single request; zero keeps the HTTP client default.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a timeout for each status request.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

var (
	// ErrTransport is returned for every failed status poll.
	ErrTransport = errors.New("status request failed")
	// ErrUnexpectedStatus is returned when the service answers with a non-2xx code.
	ErrUnexpectedStatus = errors.New("unexpected http status")
	// ErrInvalidStatus is returned when the body is not a valid buzzer status.
	ErrInvalidStatus = errors.New("invalid buzzer status")

	// errURLRequired is returned when the endpoint is missing.
	errURLRequired = errors.New("api url must be provided")
)

// NewClient creates a status client for the endpoint at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	if apiURL == "" {
		return nil, errURLRequired
	}

	if _, err := url.ParseRequestURI(apiURL); err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}

	client := &Client{
		httpClient: http.DefaultClient,
		url:        apiURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// URL returns the status endpoint.
func (c *Client) URL() string {
	return c.url
}

// Close releases idle connections.
func (c *Client) Close() error {
	if c == nil || c.httpClient == nil {
		return nil
	}

	c.httpClient.CloseIdleConnections()

	return nil
}

// GetBuzzerStatus performs one GET of the status endpoint.
// All failures wrap ErrTransport.
func (c *Client) GetBuzzerStatus(ctx context.Context) (*alert.Status, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "buzzer-relay/"+version.Short())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

		return nil, fmt.Errorf("%w: %w: %s", ErrTransport, ErrUnexpectedStatus, resp.Status)
	}

	var status *alert.Status
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: %w: decode: %w", ErrTransport, ErrInvalidStatus, err)
	}

	// A null body leaves status nil.
	if status == nil {
		return nil, fmt.Errorf("%w: %w: empty body", ErrTransport, ErrInvalidStatus)
	}

	if err = status.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrTransport, ErrInvalidStatus, err)
	}

	return status, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
