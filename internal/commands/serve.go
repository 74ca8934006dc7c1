package commands

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/tutorchat/internal/devserver"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr        string
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local stand-in for the course backend",
		Long: `Serve POST /api/chat and GET /api/health from a catalog of transcribed video
chunks. The catalog is a JSON file or a directory of JSON files, each holding a list
of {title, number, start, end, text} chunks or an object with a "chunks" list.
Without --catalog a small built-in sample is served.`,
		Annotations: map[string]string{logToStderr: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := devserver.SampleCatalog()
			if catalogPath != "" {
				loaded, err := devserver.LoadCatalog(catalogPath)
				if err != nil {
					return err
				}
				catalog = loaded
			}
			a.logger.Info("catalog loaded",
				zap.Int("chunks", catalog.Len()),
				zap.String("source", catalogSource(catalogPath)),
			)

			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			router := devserver.NewRouter(a.logger, devserver.NewHandler(a.logger, catalog))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			fmt.Fprintf(a.deps.Stderr, "Serving %d chunks on %s\n", catalog.Len(), addr)
			return a.deps.Serve(ctx, addr, router, a.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Chunk file or directory")

	return cmd
}

func catalogSource(path string) string {
	if path == "" {
		return "built-in sample"
	}
	return path
}
