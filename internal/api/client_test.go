package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/models"
)

func newTestClient(t *testing.T, httpClient *MockHttpClient, opts ...ClientOption) *ChatClient {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(httpClient), WithBaseURL("http://backend.test")}, opts...)
	client, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	defer client.Close()

	if client.BaseURL() != models.DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), models.DefaultBaseURL)
	}
	if client.timeout != 0 {
		t.Errorf("expected no timeout by default, got %v", client.timeout)
	}
	if client.httpClient == nil {
		t.Error("expected a transport to be created")
	}
}

func TestNewClient_Options(t *testing.T) {
	mock := NewMockHttpClient(nil, 200)
	client := newTestClient(t, mock, WithBaseURL("http://localhost:9000/"), WithTimeout(10*time.Second))

	if client.BaseURL() != "http://localhost:9000" {
		t.Errorf("BaseURL() = %q, trailing slash should be trimmed", client.BaseURL())
	}
	if client.timeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", client.timeout)
	}
}

func TestChat_Success(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response": "hello"}`), 200)
	client := newTestClient(t, mock)

	reply, err := client.Chat(context.Background(), "What is in video 2:30?")
	if err != nil {
		t.Fatalf("Chat() returned error: %v", err)
	}
	if reply != "hello" {
		t.Errorf("Chat() = %q, want %q", reply, "hello")
	}

	req := mock.LastRequest
	if req.Method != "POST" {
		t.Errorf("method = %s, want POST", req.Method)
	}
	if got := req.URL.String(); got != "http://backend.test/api/chat" {
		t.Errorf("url = %s", got)
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body models.ChatRequest
	if err := json.Unmarshal(mock.LastBody, &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if body.Message != "What is in video 2:30?" {
		t.Errorf("request message = %q", body.Message)
	}
}

func TestChat_Failures(t *testing.T) {
	tests := []struct {
		name       string
		mock       *MockHttpClient
		wantCause  apierrors.Cause
		wantStatus int
	}{
		{
			name:       "server error",
			mock:       NewMockHttpClient([]byte(`{"error": "boom"}`), 500),
			wantCause:  apierrors.CauseStatus,
			wantStatus: 500,
		},
		{
			name:       "bad request",
			mock:       NewMockHttpClient([]byte(`{"error": "Message cannot be empty"}`), 400),
			wantCause:  apierrors.CauseStatus,
			wantStatus: 400,
		},
		{
			name:      "network error",
			mock:      NewMockHttpClientWithError(errors.New("connection refused")),
			wantCause: apierrors.CauseNetwork,
		},
		{
			name:      "invalid json",
			mock:      NewMockHttpClient([]byte(`<html>oops</html>`), 200),
			wantCause: apierrors.CauseParse,
		},
		{
			name:      "missing response field",
			mock:      NewMockHttpClient([]byte(`{"answer": "hi"}`), 200),
			wantCause: apierrors.CauseParse,
		},
		{
			name:      "response not a string",
			mock:      NewMockHttpClient([]byte(`{"response": 42}`), 200),
			wantCause: apierrors.CauseParse,
		},
		{
			name:      "null response",
			mock:      NewMockHttpClient([]byte(`{"response": null}`), 200),
			wantCause: apierrors.CauseParse,
		},
		{
			name:      "array body",
			mock:      NewMockHttpClient([]byte(`["response"]`), 200),
			wantCause: apierrors.CauseParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.mock)

			reply, err := client.Chat(context.Background(), "hi")
			if err == nil {
				t.Fatalf("expected error, got reply %q", reply)
			}
			if !apierrors.IsRequestFailed(err) {
				t.Errorf("expected request failure, got %v", err)
			}
			if got := apierrors.GetCause(err); got != tt.wantCause {
				t.Errorf("cause = %v, want %v", got, tt.wantCause)
			}
			if got := apierrors.GetHTTPStatus(err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestChat_EmptyReplyIsValid(t *testing.T) {
	client := newTestClient(t, NewMockHttpClient([]byte(`{"response": ""}`), 200))

	reply, err := client.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Chat() returned error: %v", err)
	}
	if reply != "" {
		t.Errorf("Chat() = %q, want empty", reply)
	}
}

func TestChat_AcceptsAny2xx(t *testing.T) {
	client := newTestClient(t, NewMockHttpClient([]byte(`{"response": "created"}`), 201))

	reply, err := client.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Chat() returned error: %v", err)
	}
	if reply != "created" {
		t.Errorf("Chat() = %q", reply)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response": "x"}`), 200)
	client := newTestClient(t, mock)

	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := client.Chat(context.Background(), msg); !errors.Is(err, apierrors.ErrEmptyMessage) {
			t.Errorf("Chat(%q) error = %v, want ErrEmptyMessage", msg, err)
		}
	}
	if mock.Requests != 0 {
		t.Errorf("expected no requests, got %d", mock.Requests)
	}
}

func TestChat_ClosedClient(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response": "x"}`), 200)
	client := newTestClient(t, mock)
	client.Close()
	client.Close()

	if !mock.Closed {
		t.Error("expected idle connections to be closed")
	}
	if !client.IsClosed() {
		t.Error("expected IsClosed() to be true")
	}
	if _, err := client.Chat(context.Background(), "hi"); !errors.Is(err, apierrors.ErrClientClosed) {
		t.Errorf("Chat() error = %v, want ErrClientClosed", err)
	}
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mock := NewMockHttpClient([]byte(`{"status": "healthy", "embeddings_loaded": true}`), 200)
		client := newTestClient(t, mock)

		health, err := client.Health(context.Background())
		if err != nil {
			t.Fatalf("Health() returned error: %v", err)
		}
		if !health.Healthy() || !health.EmbeddingsLoaded {
			t.Errorf("Health() = %+v", health)
		}
		if mock.LastRequest.Method != "GET" {
			t.Errorf("method = %s, want GET", mock.LastRequest.Method)
		}
		if mock.LastRequest.URL.Path != models.EndpointHealth {
			t.Errorf("path = %s", mock.LastRequest.URL.Path)
		}
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, NewMockHttpClient([]byte(`down`), 503))
		if _, err := client.Health(context.Background()); apierrors.GetHTTPStatus(err) != 503 {
			t.Errorf("Health() error = %v, want status 503", err)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		client := newTestClient(t, NewMockHttpClient([]byte(`nope`), 200))
		if _, err := client.Health(context.Background()); apierrors.GetCause(err) != apierrors.CauseParse {
			t.Errorf("Health() error = %v, want parse error", err)
		}
	})
}

func TestParseChatResponse(t *testing.T) {
	reply, err := parseChatResponse([]byte(`{"response": "📹 Video 2\nat 2:30", "sources": []}`))
	if err != nil {
		t.Fatalf("parseChatResponse() returned error: %v", err)
	}
	if reply != "📹 Video 2\nat 2:30" {
		t.Errorf("parseChatResponse() = %q", reply)
	}
}
