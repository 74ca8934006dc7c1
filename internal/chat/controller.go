// Package chat implements the chat interaction controller: it guards against
// overlapping submissions, issues one backend call per user message and keeps the
// view in step with the request lifecycle.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/logging"
	"github.com/diogo/tutorchat/internal/models"
)

// State is the controller's interaction state
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

// String returns the state name
func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// View is the display surface the controller drives. Implementations own layout and
// styling; the controller only appends messages and toggles input and typing state.
type View interface {
	AppendMessage(msg models.Message)
	SetInputEnabled(enabled bool)
	SetTypingVisible(visible bool)
	ClearInput()
	FocusInput()
	SetInput(text string)
}

// Sender issues the outbound chat call
type Sender interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Reply is the settled result of an outbound call
type Reply struct {
	Text string
	Err  error
}

// Pending is the outbound call of an accepted submission. It blocks until the
// backend answers, so UIs run it off their event loop and hand the Reply to Complete.
type Pending func(ctx context.Context) Reply

// Controller mediates between user input, the backend and the view
type Controller struct {
	sender Sender
	view   View
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
	// settling is set while Complete updates the view, so a second reply for the
	// same request is dropped and Submit still sees the controller as busy.
	settling bool
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger that receives request failures
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock overrides the time source used to stamp messages
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates an idle controller
func NewController(sender Sender, view View, opts ...Option) *Controller {
	c := &Controller{
		sender: sender,
		view:   view,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	return c
}

// State returns the current interaction state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a request is in flight
func (c *Controller) Busy() bool {
	return c.State() == StateAwaitingResponse
}

// Submit accepts a user message. Empty input and submissions while a request is in
// flight are rejected and change nothing. On acceptance the user message is appended,
// the input is cleared and disabled, the typing indicator is shown, and the returned
// Pending performs the single outbound call.
func (c *Controller) Submit(text string) (Pending, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		c.logger.Debug("submission rejected while awaiting response")
		return nil, false
	}
	c.state = StateAwaitingResponse
	c.mu.Unlock()

	c.view.AppendMessage(models.NewMessage(text, models.SenderUser, c.now()))
	c.view.ClearInput()
	c.view.SetInputEnabled(false)
	c.view.SetTypingVisible(true)

	return func(ctx context.Context) Reply {
		reply, err := c.sender.Chat(ctx, text)
		return Reply{Text: reply, Err: err}
	}, true
}

// Complete settles the in-flight request. A failure is logged and replaced by the
// fallback message; either way the controller returns to idle, input is re-enabled
// and focused. The returned error is the request failure, for callers that report an
// exit status; the view never sees it.
func (c *Controller) Complete(reply Reply) error {
	c.mu.Lock()
	if c.state != StateAwaitingResponse || c.settling {
		c.mu.Unlock()
		c.logger.Warn("reply received with no request in flight")
		return nil
	}
	c.settling = true
	c.mu.Unlock()

	if reply.Err != nil {
		c.logger.Error("chat request failed",
			zap.Error(reply.Err),
			zap.Stringer("cause", apierrors.GetCause(reply.Err)),
			zap.Int("status", apierrors.GetHTTPStatus(reply.Err)),
		)
		c.view.SetTypingVisible(false)
		c.view.AppendMessage(models.NewMessage(models.FallbackMessage, models.SenderAgent, c.now()))
	} else {
		c.view.SetTypingVisible(false)
		c.view.AppendMessage(models.NewMessage(reply.Text, models.SenderAgent, c.now()))
	}

	c.mu.Lock()
	c.state = StateIdle
	c.settling = false
	c.mu.Unlock()

	c.view.SetInputEnabled(true)
	c.view.FocusInput()

	return reply.Err
}

// SubmitAndWait runs a whole interaction inline. It reports whether the submission
// was accepted and, if so, the request error.
func (c *Controller) SubmitAndWait(ctx context.Context, text string) (bool, error) {
	pending, ok := c.Submit(text)
	if !ok {
		return false, nil
	}
	return true, c.Complete(pending(ctx))
}

// AskQuestion puts a preset question in the input field and submits it
func (c *Controller) AskQuestion(preset string) (Pending, bool) {
	c.view.SetInput(preset)
	return c.Submit(preset)
}
