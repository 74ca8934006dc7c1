package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	msg := NewMessage("hello", SenderUser, at)

	if msg.ID == "" {
		t.Error("Expected message ID to be set")
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "hello")
	}
	if !msg.IsUser() {
		t.Error("Expected user message")
	}
	if got := msg.Clock(); got != "09:05" {
		t.Errorf("Clock() = %q, want %q", got, "09:05")
	}

	other := NewMessage("hello", SenderUser, at)
	if other.ID == msg.ID {
		t.Error("Expected distinct IDs for distinct messages")
	}
}

func TestAgentMessage(t *testing.T) {
	msg := NewMessage("hi", SenderAgent, time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC))
	if msg.IsUser() {
		t.Error("Expected agent message")
	}
	if got := msg.Clock(); got != "23:59" {
		t.Errorf("Clock() = %q, want %q", got, "23:59")
	}
}

func TestChatRequestJSON(t *testing.T) {
	data, err := json.Marshal(ChatRequest{Message: "What is in video 2:30?"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"message":"What is in video 2:30?"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestHealthStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"healthy", true},
		{"degraded", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (HealthStatus{Status: tt.status}).Healthy(); got != tt.want {
			t.Errorf("Healthy(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
