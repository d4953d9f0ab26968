// Package server wires the chunkstore components together and runs them:
// the HTTP API for uploads and reads, and the gRPC health service, both
// stopped gracefully on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/chunkstore/internal/filex"
	"github.com/dmitrijs2005/chunkstore/internal/logging"
	"github.com/dmitrijs2005/chunkstore/internal/server/config"
	"github.com/dmitrijs2005/chunkstore/internal/server/files"
	"github.com/dmitrijs2005/chunkstore/internal/server/httpapi"
	"github.com/dmitrijs2005/chunkstore/internal/server/layout"
	"github.com/dmitrijs2005/chunkstore/internal/server/uploads"

	gs "github.com/dmitrijs2005/chunkstore/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	root          string
	uploadService *uploads.Service
	fileService   *files.Service
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.Debug)

	root, err := filex.EnsureDir(c.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("storage root init error: %w", err)
	}

	l := layout.New(root)
	us := uploads.NewService(l, c.UploadLimit, logger)
	fs := files.NewService(l, logger)

	return &App{config: c, logger: logger, root: root, uploadService: us, fileService: fs}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.uploadService, app.fileService, httpapi.Timeouts{
		ReadHeader: app.config.ReadHeaderTimeout,
		Shutdown:   app.config.ShutdownTimeout,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.root, app.config.HealthInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is canceled, a signal arrives or one of the servers
// fails, and returns once both servers have stopped.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage_root", app.root, "upload_limit", app.config.UploadLimit)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
}
