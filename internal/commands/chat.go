package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/tutorchat/internal/api"
	"github.com/diogo/tutorchat/internal/config"
	"github.com/diogo/tutorchat/internal/console"
	"github.com/diogo/tutorchat/internal/render"
	"github.com/diogo/tutorchat/internal/tui"
)

func newChatCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat with the course assistant.

Each message is answered on its own; the assistant keeps no conversation memory.
Without a terminal, or with --plain, the chat runs in line mode.
Type /quit, press Esc, or press Ctrl+C to end the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.deps.NewClient(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer client.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if plain || !a.deps.IsTerminal() {
				return a.runLineMode(ctx, client)
			}

			return a.deps.RunTUI(client, tui.Options{
				Presets:      a.cfg.Presets,
				OverlayDelay: a.cfg.LoadingOverlayDelay(),
				Logger:       a.logger,
				Context:      ctx,
			})
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Use line mode instead of the full-screen interface")

	return cmd
}

func (a *app) runLineMode(ctx context.Context, client api.ChatClientInterface) error {
	historyFile := ""
	if dir, err := config.GetConfigDir(); err == nil {
		historyFile = console.HistoryPath(dir)
	}

	reader, err := a.deps.NewLineReader(historyFile)
	if err != nil {
		return err
	}

	styles := render.PlainStyles()
	if a.deps.IsTerminal() {
		styles = render.StylesForTheme(render.GetTUITheme())
	}

	view := console.NewView(a.deps.Stdout, styles)
	session := console.NewSession(client, reader, view, a.deps.Stdout, console.Options{
		Presets: a.cfg.Presets,
		Logger:  a.logger,
	})
	return session.Run(ctx)
}
