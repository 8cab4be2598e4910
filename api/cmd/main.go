// Command api serves the blog HTTP API until SIGINT or SIGTERM.
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

	"github.com/baechuer/blog-service/internal/bootstrap"
	"github.com/baechuer/blog-service/internal/logger"
)

const drainTimeout = 15 * time.Second

type server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

type builder func() (srv server, addr string, cleanup func(), err error)

func serveErr(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Run serves until ctx is cancelled or the listener fails and reports the
// process exit code. In-flight requests get drainTimeout to finish before
// the server is closed hard. cleanup runs only after the listener returns.
func Run(ctx context.Context, build builder, lg zerolog.Logger) int {
	srv, addr, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	served := make(chan error, 1)
	go func() { served <- serveErr(srv.ListenAndServe()) }()
	lg.Info().Str("addr", addr).Msg("listening")

	select {
	case err := <-served:
		if err != nil {
			lg.Error().Err(err).Msg("listener stopped")
			return 1
		}
		return 0
	case <-ctx.Done():
		lg.Info().Msg("stopping")
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		lg.Warn().Err(err).Msg("drain incomplete, closing")
		_ = srv.Close()
	}
	if err := <-served; err != nil {
		lg.Error().Err(err).Msg("listener error while stopping")
	}

	lg.Info().Msg("stopped")
	return 0
}

func fromBootstrap() (server, string, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, "", nil, err
	}
	return srv, srv.Addr, cleanup, nil
}

func main() {
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, fromBootstrap, zlog.Logger)
	stop()
	os.Exit(code)
}
