package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/logging"
	"github.com/dmitrijs2005/chunkstore/internal/server/files"
)

// Uploads is the upload protocol as used by the handlers.
type Uploads interface {
	Limit() uint64
	Start(ctx context.Context, size *uint64) (string, error)
	Room(ctx context.Context, token string, offset uint64) (uint64, error)
	WriteChunk(ctx context.Context, token string, offset uint64, data []byte) error
	Finalize(ctx context.Context, token string, md5 string) (string, error)
}

// Files is read access to finalized uploads.
type Files interface {
	Meta(ctx context.Context, token string) (files.Meta, error)
	ReadChunk(ctx context.Context, token string, offset uint64) ([]byte, error)
}

// Timeouts bound request header reads and graceful shutdown.
type Timeouts struct {
	ReadHeader time.Duration
	Shutdown   time.Duration
}

type Server struct {
	address  string
	uploads  Uploads
	files    Files
	logger   logging.Logger
	timeouts Timeouts
}

func NewServer(a string, l logging.Logger, us Uploads, fs Files, t Timeouts) *Server {
	return &Server{
		address:  a,
		uploads:  us,
		files:    fs,
		logger:   l.With("module", "http_server"),
		timeouts: t,
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on l until ctx is canceled, then waits up to the shutdown
// timeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.timeouts.ReadHeader,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.Shutdown)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
			_ = srv.Close()
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())

	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}
