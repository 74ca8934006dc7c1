package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ergochat/readline"
	"go.uber.org/zap"

	"github.com/diogo/tutorchat/internal/chat"
	"github.com/diogo/tutorchat/internal/logging"
)

const prompt = "you> "

// LineReader supplies one line of user input at a time
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// Options configures a line-mode session
type Options struct {
	Presets     []string
	Logger      *zap.Logger
	HistoryFile string
}

// Session reads lines and feeds them to a chat controller
type Session struct {
	in      LineReader
	out     io.Writer
	view    *View
	ctrl    *chat.Controller
	presets []string
	logger  *zap.Logger
}

// NewSession wires a reader, a view and a controller together
func NewSession(sender chat.Sender, in LineReader, view *View, out io.Writer, opts Options) *Session {
	logger := logging.OrNop(opts.Logger)
	return &Session{
		in:      in,
		out:     out,
		view:    view,
		ctrl:    chat.NewController(sender, view, chat.WithLogger(logger)),
		presets: opts.Presets,
		logger:  logger,
	}
}

// NewReadline opens an interactive line reader with history
func NewReadline(historyFile string) (*readline.Instance, error) {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		HistoryLimit:    200,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open line reader: %w", err)
	}
	return rl, nil
}

// HistoryPath returns the readline history file inside the config dir
func HistoryPath(configDir string) string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "history")
}

// Run loops until EOF, an interrupt on an empty line, /quit, or ctx is done.
// Request failures are shown as the fallback reply and do not end the session.
func (s *Session) Run(ctx context.Context) error {
	defer s.in.Close()

	s.printWelcome()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := s.in.ReadLine()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if strings.TrimSpace(line) == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch {
		case input == "/quit" || input == "/exit":
			return nil
		case input == "/help":
			s.printHelp()
			continue
		case strings.HasPrefix(input, "/ask "):
			s.ask(ctx, strings.TrimSpace(strings.TrimPrefix(input, "/ask ")))
			continue
		}

		if _, err := s.ctrl.SubmitAndWait(ctx, input); err != nil {
			s.logger.Debug("line-mode request failed", zap.Error(err))
		}
	}
}

func (s *Session) ask(ctx context.Context, arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(s.presets) {
		fmt.Fprintf(s.out, "No example question %q. Type /help for the list.\n", arg)
		return
	}

	pending, ok := s.ctrl.AskQuestion(s.presets[n-1])
	if !ok {
		return
	}
	_ = s.ctrl.Complete(pending(ctx))
}

func (s *Session) printWelcome() {
	fmt.Fprintln(s.out, "Hi! Ask me anything about the course videos. Type /help for commands.")
	s.printPresets()
}

func (s *Session) printPresets() {
	if len(s.presets) == 0 {
		return
	}
	fmt.Fprintln(s.out, "Try one of these with /ask N:")
	for i, p := range s.presets {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, p)
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, "Commands: /ask N, /help, /quit. Ctrl+D or Ctrl+C on an empty line exits.")
	s.printPresets()
}
