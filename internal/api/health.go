package api

import (
	"context"
	"encoding/json"
	"fmt"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/models"
)

// Health queries the backend health endpoint
func (c *ChatClient) Health(ctx context.Context) (*models.HealthStatus, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(models.EndpointHealth), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	data, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apierrors.NewStatusError(status, models.EndpointHealth, string(data))
	}

	var health models.HealthStatus
	if err := json.Unmarshal(data, &health); err != nil {
		return nil, apierrors.NewParseError(models.EndpointHealth, err.Error())
	}

	return &health, nil
}
