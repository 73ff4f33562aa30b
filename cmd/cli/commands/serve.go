package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/httpapi"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trainer directory JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Cfg.ListenAddr
			}
			writes, _ := cmd.Flags().GetFloat64("writes-per-second")

			router := httpapi.NewRouter(httpapi.Deps{
				Store:           app.Database,
				Geocoder:        app.Geocoder,
				Sorter:          app.Sorter,
				Cycle:           app.Cycle,
				Location:        app.Location,
				Logger:          app.Logger,
				WritesPerSecond: writes,
			})

			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("HTTP server listening", zap.String("addr", addr))
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			app.Logger.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to listenAddr from the config)")
	cmd.Flags().Float64("writes-per-second", 10, "Availability updates allowed per second, 0 for no limit")

	return cmd
}
