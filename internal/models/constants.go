// Package models contains data types and constants for the tutorchat client.
package models

// Endpoint paths, relative to the backend base URL
const (
	EndpointChat   = "/api/chat"
	EndpointHealth = "/api/health"
)

// DefaultBaseURL is where the course backend listens by default
const DefaultBaseURL = "http://localhost:8080"

// FallbackMessage is shown in place of an agent reply whenever a request fails
const FallbackMessage = "Sorry, I encountered an error. Please try again."

// DefaultPresets are the example questions offered on the welcome screen
var DefaultPresets = []string{
	"What is a reflection?",
	"Which video explains rotations?",
	"Where are translations taught?",
	"Summarize the lesson on symmetry",
}

// DefaultHeaders returns headers sent with every backend request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "tutorchat",
	}
}
