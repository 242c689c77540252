// Package rest exposes the hub over HTTP/JSON using chi.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/logging"
)

// Options tune the router's cross-cutting middleware.
type Options struct {
	AllowedOrigins []string
	// RequestsPerMinute is the per-IP budget; zero disables throttling.
	RequestsPerMinute int
}

type Server struct {
	address  string
	logger   logging.Logger
	services Services
	opts     Options
}

func NewServer(address string, l logging.Logger, svc Services, opts Options) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		services: svc,
		opts:     opts,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
