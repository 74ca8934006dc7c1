// Package api implements the HTTP client for the course chat backend.
package api

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/tutorchat/internal/logging"
	"github.com/diogo/tutorchat/internal/models"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 4 << 20

// ChatClient talks to the backend's /api/chat and /api/health endpoints
type ChatClient struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*ChatClient)

// WithBaseURL sets the backend address
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ChatClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout bounds each request. Zero, the default, waits forever.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ChatClient) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *ChatClient) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *ChatClient) {
		c.logger = logger
	}
}

// NewClient creates a new ChatClient
func NewClient(opts ...ClientOption) (*ChatClient, error) {
	client := &ChatClient{
		baseURL: models.DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.OrNop(client.logger)

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the backend address
func (c *ChatClient) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections. Requests after Close fail.
func (c *ChatClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *ChatClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// url joins the base URL and an endpoint path
func (c *ChatClient) url(path string) string {
	return c.baseURL + path
}
