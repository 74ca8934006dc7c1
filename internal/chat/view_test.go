package chat

import (
	"fmt"
	"sync"

	"github.com/diogo/tutorchat/internal/models"
)

// recordingView is a View that records every call in order
type recordingView struct {
	mu           sync.Mutex
	events       []string
	messages     []models.Message
	input        string
	inputEnabled bool
	typing       bool
	focused      bool
}

func newRecordingView() *recordingView {
	return &recordingView{inputEnabled: true}
}

func (v *recordingView) record(format string, args ...any) {
	v.events = append(v.events, fmt.Sprintf(format, args...))
}

func (v *recordingView) AppendMessage(msg models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, msg)
	v.record("append %s", msg.Sender)
}

func (v *recordingView) SetInputEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputEnabled = enabled
	v.record("input %t", enabled)
}

func (v *recordingView) SetTypingVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typing = visible
	v.record("typing %t", visible)
}

func (v *recordingView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = ""
	v.record("clear")
}

func (v *recordingView) FocusInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.focused = true
	v.record("focus")
}

func (v *recordingView) SetInput(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = text
	v.record("set %q", text)
}

func (v *recordingView) Messages() []models.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Message(nil), v.messages...)
}

func (v *recordingView) Events() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.events...)
}
