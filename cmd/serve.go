package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"netcontrol/internal/bootstrap"
	"netcontrol/internal/bootstrap/logging"
	"netcontrol/internal/errs"
	"netcontrol/internal/transport/rest"
	"netcontrol/internal/usecase/opslog"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the net-control HTTP server",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *opslog.Service, srv *rest.Server) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		httpSrv := &http.Server{
			Addr:              app.Config.Server.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logging.Info(ctx, "http server listening", slog.String("addr", app.Config.Server.Addr))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errs.Wrap(err, "serve http")
			}
		case <-signalCtx.Done():
			logging.Info(ctx, "shutdown signal received")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}

		logging.Info(ctx, "http server stopped")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
