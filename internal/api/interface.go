package api

import (
	"context"

	"github.com/diogo/tutorchat/internal/models"
)

// ChatClientInterface is what the controller and commands need from a backend client
type ChatClientInterface interface {
	Chat(ctx context.Context, message string) (string, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
	BaseURL() string
	Close()
	IsClosed() bool
}

var _ ChatClientInterface = (*ChatClient)(nil)
