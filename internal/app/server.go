package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/handler"
)

const shutdownTimeout = 30 * time.Second

// runServer serves the HTTP API until ctx is cancelled.
func (a *App) runServer(ctx context.Context) error {
	router := handler.NewRouter(handler.RouterConfig{
		RequestTimeout:     a.cfg.RequestTimeout,
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
		Debug:              a.cfg.Debug,
	}, a.services, a.logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("HTTP server stopped")
	return nil
}
