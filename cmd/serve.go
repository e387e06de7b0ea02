package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaoyuanzhu-com/project-import/api"
	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/server"
)

var (
	servePort       int
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the import HTTP API",
	Long: `Start the HTTP server exposing the autopilot, folder and archive import
endpoints plus the import journal and its event stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := server.FromAppConfig(appConfig)
		if servePort > 0 {
			cfg.Port = servePort
		}

		srv, err := server.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		api.SetupRoutes(srv.Router(), api.NewHandlers(srv))

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
			log.Info().Msg("received shutdown signal")
		case err := <-errCh:
			if err != nil {
				_ = srv.Shutdown(context.Background())
				return fmt.Errorf("server error: %w", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Grace period for in-flight requests")

	rootCmd.AddCommand(serveCmd)
}
