package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/models"
)

// Chat posts one message and returns the backend's reply text.
// Every failure is a *errors.RequestFailedError except empty input and a closed client.
func (c *ChatClient) Chat(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apierrors.ErrEmptyMessage
	}

	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	payload, err := json.Marshal(models.ChatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(models.EndpointChat), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	data, status, err := c.do(req)
	if err != nil {
		return "", err
	}

	c.logger.Debug("chat request finished",
		zap.Int("status", status),
		zap.Int("bytes", len(data)),
		zap.Duration("latency", time.Since(start)),
	)

	if status < 200 || status > 299 {
		return "", apierrors.NewStatusError(status, models.EndpointChat, string(data))
	}

	return parseChatResponse(data)
}

// do sends req and reads the whole body
func (c *ChatClient) do(req *http.Request) ([]byte, int, error) {
	endpoint := req.URL.Path

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, apierrors.NewNetworkError(endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, apierrors.NewNetworkError(endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	return data, resp.StatusCode, nil
}

// parseChatResponse extracts the reply. The body must be a JSON object whose
// "response" field is a string; an empty string is a valid reply.
func parseChatResponse(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", apierrors.NewParseError(models.EndpointChat, "invalid JSON body")
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return "", apierrors.NewParseError(models.EndpointChat, "response body is not an object")
	}

	reply := parsed.Get("response")
	if !reply.Exists() {
		return "", apierrors.NewParseError(models.EndpointChat, "missing response field")
	}
	if reply.Type != gjson.String {
		return "", apierrors.NewParseError(models.EndpointChat, "response field is not a string")
	}

	return reply.String(), nil
}
