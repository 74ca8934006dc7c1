package models

// ChatRequest is the body posted to the chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the success body of the chat endpoint
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is returned by the backend on rejected requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthStatus is the body of the health endpoint
type HealthStatus struct {
	Status           string `json:"status"`
	EmbeddingsLoaded bool   `json:"embeddings_loaded"`
}

// Healthy reports whether the backend declared itself ready
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}
