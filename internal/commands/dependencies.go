package commands

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/tutorchat/internal/api"
	"github.com/diogo/tutorchat/internal/config"
	"github.com/diogo/tutorchat/internal/console"
	"github.com/diogo/tutorchat/internal/devserver"
	"github.com/diogo/tutorchat/internal/logging"
	"github.com/diogo/tutorchat/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the backend client from the effective configuration.
	NewClient func(cfg config.Config, logger *zap.Logger) (api.ChatClientInterface, error)

	// RunTUI runs the full-screen chat until the user quits.
	RunTUI func(client api.ChatClientInterface, opts tui.Options) error

	// NewLineReader opens the line-mode input.
	NewLineReader func(historyFile string) (console.LineReader, error)

	// Serve runs the dev server until ctx is done.
	Serve func(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error

	LoadConfig func() (config.Config, error)
	NewLogger  func(opts logging.Options) (*zap.Logger, error)
	Clipboard  func(text string) error

	// IsTerminal reports whether stdin and stdout are both a TTY.
	IsTerminal func() bool
	// StdinIsPipe reports whether input was piped or redirected in.
	StdinIsPipe func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: func(cfg config.Config, logger *zap.Logger) (api.ChatClientInterface, error) {
			return api.NewClient(
				api.WithBaseURL(cfg.BaseURL),
				api.WithTimeout(cfg.Timeout()),
				api.WithLogger(logger),
			)
		},
		RunTUI: tui.RunChat,
		NewLineReader: func(historyFile string) (console.LineReader, error) {
			rl, err := console.NewReadline(historyFile)
			if err != nil {
				return nil, err
			}
			return rl, nil
		},
		Serve:      devserver.Serve,
		LoadConfig: config.LoadConfig,
		NewLogger:  logging.New,
		Clipboard:  clipboard.WriteAll,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		StdinIsPipe: func() bool {
			stat, err := os.Stdin.Stat()
			if err != nil {
				return false
			}
			return (stat.Mode() & os.ModeCharDevice) == 0
		},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
