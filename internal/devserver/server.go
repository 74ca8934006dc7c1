package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/tutorchat/internal/logging"
	"github.com/diogo/tutorchat/internal/models"
)

const requestIDHeader = "X-Request-ID"

// Handler serves the chat and health endpoints
type Handler struct {
	logger  *zap.Logger
	catalog *Catalog
}

// NewHandler creates a handler answering from catalog
func NewHandler(logger *zap.Logger, catalog *Catalog) *Handler {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	return &Handler{logger: logging.OrNop(logger), catalog: catalog}
}

// Chat handles POST /api/chat
func (h *Handler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Message cannot be empty"})
		return
	}

	h.logger.Debug("processing query", zap.String("query", message))
	c.JSON(http.StatusOK, models.ChatResponse{Response: Answer(h.catalog, message)})
}

// Health handles GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthStatus{
		Status:           "healthy",
		EmbeddingsLoaded: h.catalog.Len() > 0,
	})
}

// NewRouter sets up gin with logging, recovery and the API routes
func NewRouter(logger *zap.Logger, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logging.OrNop(logger)), gin.Recovery())

	api := r.Group("/api")
	api.POST("/chat", h.Chat)
	api.GET("/health", h.Health)

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Serve runs the server on addr until ctx is cancelled, then shuts down gracefully
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		<-errCh
		return nil
	}
}
