package app

import (
	"context"
	"errors"
	"fmt"
)

// runWorker consumes generation jobs until ctx is cancelled. In-flight jobs
// are drained when the consumer is closed during Shutdown.
func (a *App) runWorker(ctx context.Context) error {
	if a.consumer == nil || a.worker == nil {
		return errors.New("worker mode requires a job consumer and handler")
	}

	if err := a.consumer.StartConsumingGenerationJobs(ctx, a.worker); err != nil {
		return fmt.Errorf("start job consumer: %w", err)
	}
	a.logger.Info("worker started, waiting for generation jobs")

	<-ctx.Done()
	a.logger.Info("worker stopping")
	return nil
}
