package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultHealthTimeout = 5 * time.Second

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is up and has its embeddings loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.deps.NewClient(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer client.Close()

			timeout := defaultHealthTimeout
			if t := a.cfg.Timeout(); t > 0 {
				timeout = t
			}
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			status, err := client.Health(ctx)
			if err != nil {
				a.logger.Warn("health check failed", zap.Error(err))
				return fmt.Errorf("backend at %s is unreachable: %w", client.BaseURL(), err)
			}

			embeddings := "embeddings loaded"
			if !status.EmbeddingsLoaded {
				embeddings = "embeddings NOT loaded"
			}
			fmt.Fprintf(a.deps.Stdout, "Backend %s: %s, %s\n", client.BaseURL(), status.Status, embeddings)

			if !status.Healthy() || !status.EmbeddingsLoaded {
				return fmt.Errorf("backend at %s is not ready", client.BaseURL())
			}
			return nil
		},
	}
}
