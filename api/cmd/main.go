package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/bootstrap"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/logger"
)

const shutdownGrace = 15 * time.Second

// httpServer is the minimal server surface Run needs; a fake satisfies
// it in tests.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

type realServer struct{ *http.Server }

func (r realServer) Addr() string { return r.Server.Addr }

// serverBuilder builds the server and returns a cleanup function.
type serverBuilder func() (httpServer, func(), error)

func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	case err := <-errCh:
		// Exit non-zero so an orchestrator restarts us.
		lg.Error().Err(err).Msg("server crashed")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}

	lg.Info().Msg("shutdown complete")
	return 0
}

func buildFromBootstrap() (httpServer, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, nil, err
	}
	return realServer{srv}, cleanup, nil
}

func main() {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	os.Exit(Run(buildFromBootstrap, sigCh, zlog.Logger))
}
