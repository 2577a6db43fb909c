package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clinic-shifts/internal/api"
	"clinic-shifts/internal/clock"
	"clinic-shifts/internal/scheduler"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the daily sync scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			daily := scheduler.NewDaily(a.reconcile.SyncAll, clock.System{}, a.log.Named("scheduler"))
			go daily.Run(ctx)

			srv := &http.Server{
				Addr:              a.cfg.Server.Listen,
				Handler:           api.NewServer(a.shifts, a.reconcile, a.export, a.reg, a.log.Named("api")).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("http server listening", zap.String("addr", a.cfg.Server.Listen))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			a.log.Info("server stopped")
			return nil
		},
	}
}
