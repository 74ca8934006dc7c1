// Package commands provides CLI commands for tutorchat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/tutorchat/internal/config"
	"github.com/diogo/tutorchat/internal/logging"
	"github.com/diogo/tutorchat/internal/render"
	"github.com/diogo/tutorchat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// logToStderr marks commands whose logs belong on stderr rather than the log file
const logToStderr = "log-to-stderr"

// app carries the state shared by every command of one invocation
type app struct {
	deps   *Dependencies
	cfg    config.Config
	logger *zap.Logger

	urlFlag    string
	verbose    bool
	fileFlag   string
	outputFlag string
	rawFlag    bool
}

// rootCmd is the command run by Execute
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	a := &app{deps: deps, logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "tutorchat [question]",
		Short: "Ask the course assistant about the course videos",
		Long: `tutorchat talks to the course Q&A backend. Answers point to the video and
the time range where a topic is taught.

Examples:
  tutorchat chat                                Start interactive chat
  tutorchat "Which video explains rotations?"   Ask a single question
  tutorchat -f question.txt                     Read the question from a file
  echo "What is a reflection?" | tutorchat      Read the question from stdin
  tutorchat health                              Check the backend
  tutorchat serve --catalog ./jsons             Run a local stand-in backend`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(a.deps.Stdout, "tutorchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if a.fileFlag != "" {
				data, err := os.ReadFile(a.fileFlag)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return a.runQuery(cmd.Context(), string(data))
			}

			if len(args) > 0 {
				return a.runQuery(cmd.Context(), args[0])
			}

			if a.deps.StdinIsPipe() {
				data, err := io.ReadAll(a.deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return a.runQuery(cmd.Context(), string(data))
			}

			return cmd.Help()
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVar(&a.urlFlag, "url", "", "Backend base URL (overrides config and TUTORCHAT_URL)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Debug logging and detailed request errors")
	cmd.Flags().StringVarP(&a.fileFlag, "file", "f", "", "Read the question from a file")
	cmd.Flags().StringVarP(&a.outputFlag, "output", "o", "", "Save the answer to a file")
	cmd.Flags().BoolVar(&a.rawFlag, "raw", false, "Print the answer exactly as received")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(a))
	cmd.AddCommand(newHealthCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(NewConfigCmd(a))

	return cmd
}

// setup loads .env, the config file and environment overrides, applies the theme
// and opens the logger
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := a.deps.LoadConfig()
	if err != nil {
		return err
	}
	if a.urlFlag != "" {
		cfg.BaseURL = a.urlFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	opts := logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Verbose: a.verbose}
	if cmd.Annotations[logToStderr] == "true" {
		opts.File = ""
	}
	logger, err := a.deps.NewLogger(opts)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("timeout", cfg.Timeout()),
	)

	return nil
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		fmt.Fprintln(os.Stderr, tui.FormatError(err, verbose))
		stop()
		os.Exit(1)
	}
}
