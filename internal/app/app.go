package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/ContentGenius/internal/config"
	"github.com/GoArmGo/ContentGenius/internal/core/ports"
	"github.com/GoArmGo/ContentGenius/internal/handler"
)

const (
	ModeServer = "server"
	ModeWorker = "worker"
	ModeAll    = "all"
)

// App is the assembled process. The same binary runs the HTTP API, the
// queue worker, or both.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	services handler.Services
	consumer ports.GenerationJobConsumer
	worker   ports.GenerationJobHandler
	closers  []io.Closer
}

// NewApp wires the process. closers are released in reverse order on shutdown.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	services handler.Services,
	consumer ports.GenerationJobConsumer,
	worker ports.GenerationJobHandler,
	closers ...io.Closer,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		services: services,
		consumer: consumer,
		worker:   worker,
		closers:  closers,
	}
}

// LoggerIns returns the application logger.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run blocks until SIGINT/SIGTERM or a fatal error, then releases resources.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = a.runServer(ctx)
	case ModeWorker:
		err = a.runWorker(ctx)
	case ModeAll:
		err = a.runAll(ctx)
	default:
		err = fmt.Errorf("unknown mode %q (use %s, %s or %s)", mode, ModeServer, ModeWorker, ModeAll)
	}

	a.logger.Info("shutting down")
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}
	return err
}

func (a *App) runAll(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	go func() { errs <- a.runWorker(ctx) }()
	go func() { errs <- a.runServer(ctx) }()

	// whichever half exits first stops the other
	first := <-errs
	cancel()
	second := <-errs
	return errors.Join(first, second)
}

// Shutdown closes every resource in reverse order of acquisition.
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
