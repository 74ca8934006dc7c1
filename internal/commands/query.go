package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/tutorchat/internal/chat"
	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/format"
	"github.com/diogo/tutorchat/internal/models"
	"github.com/diogo/tutorchat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#00d4ff"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#7aa2f7"),
	lipgloss.Color("#bb9af7"),
	lipgloss.Color("#00d2d3"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)
)

// spinner handles the animated loading indicator
type spinner struct {
	w       io.Writer
	message string
	stopCh  chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner writing to w
func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	if s == nil {
		return
	}
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stopCh:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.w, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stopCh)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	if s == nil {
		return
	}
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", checkmark, msg)
}

// stop ends the animation and clears the line. Safe to call more than once.
func (s *spinner) stop() {
	if s == nil {
		return
	}
	s.stopOnce()
	<-s.done
}

// answerView is the chat.View of a one-shot query. The typing indicator drives the
// spinner and the assistant's message is kept for printing.
type answerView struct {
	spin  *spinner
	reply *models.Message
}

func (v *answerView) AppendMessage(msg models.Message) {
	if !msg.IsUser() {
		v.reply = &msg
	}
}

func (v *answerView) SetTypingVisible(visible bool) {
	if visible {
		v.spin.start()
		return
	}
	v.spin.stop()
}

func (v *answerView) SetInputEnabled(bool) {}
func (v *answerView) ClearInput()          {}
func (v *answerView) FocusInput()          {}
func (v *answerView) SetInput(string)      {}

// runQuery sends one question and prints the answer. With --raw the answer is
// printed exactly as received, otherwise it is formatted like the chat view.
func (a *app) runQuery(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return apierrors.ErrEmptyMessage
	}

	client, err := a.deps.NewClient(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	interactive := a.deps.IsTerminal()

	view := &answerView{}
	if interactive && !a.rawFlag {
		view.spin = newSpinner(a.deps.Stderr, "Searching the course videos")
	}

	ctrl := chat.NewController(client, view, chat.WithLogger(a.logger))
	accepted, err := ctrl.SubmitAndWait(ctx, question)
	if !accepted {
		return apierrors.ErrEmptyMessage
	}
	if err != nil {
		return err
	}
	view.spin.stopWithSuccess("Answer ready")

	reply := view.reply.Content
	plain := format.Plain(format.Segments(reply))

	if a.outputFlag != "" {
		if err := os.WriteFile(a.outputFlag, []byte(plain+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	if a.rawFlag {
		fmt.Fprintln(a.deps.Stdout, reply)
	} else {
		styles := render.PlainStyles()
		if interactive {
			styles = render.StylesForTheme(render.GetTUITheme())
		}
		body := render.Content(reply, styles)
		if interactive {
			fmt.Fprintln(a.deps.Stdout, assistantLabelStyle.Render("📹 Assistant"))
			fmt.Fprintln(a.deps.Stdout, assistantBubbleStyle.Render(body))
		} else {
			fmt.Fprintln(a.deps.Stdout, body)
		}
	}

	if a.cfg.CopyToClipboard {
		if err := a.deps.Clipboard(plain); err != nil {
			a.logger.Warn("clipboard copy failed", zap.Error(err))
		}
	}

	return nil
}
