package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/sadopc/efficia/internal/api"
	"github.com/spf13/cobra"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST service that stores activity samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), e)
		},
	}
}

func runServe(parent context.Context, e *env) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := e.logger

	s, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close database")
		}
	}()
	logger.Info().Str("path", e.cfg.Database.Path).Msg("Database initialized")

	srv := api.NewServer(&api.ServerConfig{
		Addr:           e.cfg.Server.Addr(),
		AllowedOrigins: e.cfg.Server.AllowedOrigins,
		BodyLimit:      e.cfg.Server.BodyLimit,
		RateLimit:      e.cfg.Server.RateLimit,
		DefaultLimit:   e.cfg.API.DefaultLimit,
		MaxLimit:       e.cfg.API.MaxLimit,
	}, s, logger)

	if err := srv.Listen(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Bound before READY=1; early connections queue until Serve runs.
	notify(logger, daemon.SdNotifyReady)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutdown signal received, gracefully stopping...")
	notify(logger, daemon.SdNotifyStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error stopping API server")
		return err
	}

	logger.Info().Msg("efficia stopped")
	return nil
}
