package ports

import (
	"context"

	"github.com/GoArmGo/ContentGenius/internal/messaging/payloads"
)

// GenerationJobPublisher enqueues generation jobs. Used by the request path.
type GenerationJobPublisher interface {
	PublishGenerationJob(ctx context.Context, payload payloads.GenerationJobPayload) error
}

// GenerationJobHandler processes one job delivery on the worker side.
type GenerationJobHandler interface {
	// HandleGenerationJob returns an error only when the job should be redelivered.
	HandleGenerationJob(ctx context.Context, payload payloads.GenerationJobPayload) error
	// FailGenerationJob runs once the attempt budget is exhausted.
	FailGenerationJob(ctx context.Context, payload payloads.GenerationJobPayload, cause error) error
}

// GenerationJobConsumer feeds queued jobs to a handler until ctx is cancelled.
type GenerationJobConsumer interface {
	StartConsumingGenerationJobs(ctx context.Context, handler GenerationJobHandler) error
}
