// Package console runs the chat in plain line mode, for pipes, dumb terminals and
// --plain. It drives the same controller as the TUI.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/diogo/tutorchat/internal/models"
	"github.com/diogo/tutorchat/internal/render"
)

const typingLine = "… Assistant is typing"

// View prints chat messages as timestamped lines
type View struct {
	mu     sync.Mutex
	w      io.Writer
	styles render.SegmentStyles

	typing       bool
	inputEnabled bool
	pendingInput string
}

// NewView creates a line-mode view writing to w
func NewView(w io.Writer, styles render.SegmentStyles) *View {
	return &View{w: w, styles: styles, inputEnabled: true}
}

// AppendMessage prints "[15:04] You: ..." or "[15:04] Assistant: ...". Continuation
// lines are indented under the label.
func (v *View) AppendMessage(msg models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()

	label := "Assistant"
	if msg.IsUser() {
		label = "You"
	}
	prefix := fmt.Sprintf("[%s] %s: ", msg.Clock(), label)
	body := render.Content(msg.Content, v.styles)
	body = strings.ReplaceAll(body, "\n", "\n"+strings.Repeat(" ", len([]rune(prefix))))

	fmt.Fprintf(v.w, "%s%s\n", prefix, body)
}

// SetTypingVisible prints the typing line when the indicator turns on
func (v *View) SetTypingVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if visible && !v.typing {
		fmt.Fprintln(v.w, typingLine)
	}
	v.typing = visible
}

// SetInputEnabled records whether the prompt may accept a message
func (v *View) SetInputEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputEnabled = enabled
}

// ClearInput drops any preset placed by SetInput
func (v *View) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pendingInput = ""
}

// FocusInput is a no-op: the line reader always owns the cursor
func (v *View) FocusInput() {}

// SetInput echoes a preset question as if it had been typed
func (v *View) SetInput(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pendingInput = text
	fmt.Fprintf(v.w, "> %s\n", text)
}

// InputEnabled reports whether a new message would be accepted
func (v *View) InputEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inputEnabled
}

// Typing reports whether the typing indicator is on
func (v *View) Typing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.typing
}
