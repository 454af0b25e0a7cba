package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/core/ports"
	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/messaging/payloads"
	"github.com/GoArmGo/ContentGenius/internal/metrics"
)

// ArchiveKey is the object key under which a completed output is archived.
func ArchiveKey(g *domain.Generation) string {
	return fmt.Sprintf("generations/%s/%s.md", g.Type, g.UUID)
}

// GenerationWorker processes queued generation jobs. It implements
// ports.GenerationJobHandler.
type GenerationWorker struct {
	generations ports.GenerationStorage
	generator   ContentGenerator
	archive     OutputArchive
	stats       ports.StatsCache
	timeout     time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewGenerationWorker builds a worker. archive may be nil, in which case
// outputs are only kept in the database.
func NewGenerationWorker(
	generations ports.GenerationStorage,
	generator ContentGenerator,
	archive OutputArchive,
	stats ports.StatsCache,
	timeout time.Duration,
	logger *slog.Logger,
) *GenerationWorker {
	return &GenerationWorker{
		generations: generations,
		generator:   generator,
		archive:     archive,
		stats:       stats,
		timeout:     timeout,
		now:         time.Now,
		logger:      logger,
	}
}

var _ ports.GenerationJobHandler = (*GenerationWorker)(nil)

// HandleGenerationJob runs one delivery. A provider failure is recorded on
// the record and is not returned; only persistence errors are, so the
// message gets redelivered.
func (w *GenerationWorker) HandleGenerationJob(ctx context.Context, payload payloads.GenerationJobPayload) error {
	log := w.logger.With("generation_id", payload.GenerationID, "uuid", payload.UUID, "attempt", payload.Attempt)

	g, err := w.generations.GetGenerationByID(ctx, payload.GenerationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("generation no longer exists, dropping job")
			return nil
		}
		return fmt.Errorf("usecase: load generation %d: %w", payload.GenerationID, err)
	}
	if g.Status.IsTerminal() {
		log.Info("generation already finished, skipping redelivered job", "status", g.Status)
		return nil
	}

	if err := g.MarkProcessing(); err != nil {
		return err
	}
	if err := w.generations.SaveGeneration(ctx, g); err != nil {
		return fmt.Errorf("usecase: mark generation %s processing: %w", g.UUID, err)
	}

	completion, genErr := w.generate(ctx, g)
	if genErr != nil {
		log.Warn("generation failed", "error", genErr)
		if err := g.MarkFailed(genErr.Error()); err != nil {
			return err
		}
	} else {
		metadata := w.metadataFor(ctx, g, completion)
		if err := g.MarkCompleted(completion.Content, metadata, w.now()); err != nil {
			return err
		}
	}

	if err := w.generations.SaveGeneration(ctx, g); err != nil {
		return fmt.Errorf("usecase: save generation %s result: %w", g.UUID, err)
	}

	metrics.GenerationsFinished.WithLabelValues(string(g.Type), string(g.Status)).Inc()
	w.invalidateStats(ctx, g.UserID)
	log.Info("generation finished", "status", g.Status, "retry_count", g.RetryCount)
	return nil
}

func (w *GenerationWorker) generate(ctx context.Context, g *domain.Generation) (*domain.Completion, error) {
	prompt, err := BuildPrompt(g)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	completion, err := w.generator.Complete(callCtx, prompt)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ProviderDuration.WithLabelValues(string(g.Type), outcome).Observe(time.Since(start).Seconds())
	return completion, err
}

func (w *GenerationWorker) metadataFor(ctx context.Context, g *domain.Generation, c *domain.Completion) map[string]any {
	metadata := map[string]any{
		"model": c.Model,
		"usage": map[string]any{
			"prompt_tokens":     c.Usage.PromptTokens,
			"completion_tokens": c.Usage.CompletionTokens,
			"total_tokens":      c.Usage.TotalTokens,
		},
		"generated_at": w.now().UTC().Format(time.RFC3339),
	}

	if w.archive == nil {
		return metadata
	}
	key := ArchiveKey(g)
	if _, err := w.archive.UploadFile(ctx, key, strings.NewReader(c.Content), "text/markdown; charset=utf-8"); err != nil {
		// the output is still stored on the record
		w.logger.Warn("failed to archive generation output", "uuid", g.UUID, "key", key, "error", err)
		return metadata
	}
	metadata["archive_key"] = key
	return metadata
}

// FailGenerationJob marks the record failed once redelivery is exhausted.
func (w *GenerationWorker) FailGenerationJob(ctx context.Context, payload payloads.GenerationJobPayload, cause error) error {
	g, err := w.generations.GetGenerationByID(ctx, payload.GenerationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("usecase: load generation %d: %w", payload.GenerationID, err)
	}
	if g.Status.IsTerminal() {
		return nil
	}

	if g.Status == domain.StatusPending {
		if err := g.MarkProcessing(); err != nil {
			return err
		}
		if err := w.generations.SaveGeneration(ctx, g); err != nil {
			return fmt.Errorf("usecase: mark generation %s processing: %w", g.UUID, err)
		}
	}

	msg := "Job failed permanently"
	if cause != nil {
		msg += ": " + cause.Error()
	}
	if err := g.MarkFailed(msg); err != nil {
		return err
	}
	if err := w.generations.SaveGeneration(ctx, g); err != nil {
		return fmt.Errorf("usecase: save failed generation %s: %w", g.UUID, err)
	}

	metrics.GenerationsFinished.WithLabelValues(string(g.Type), string(g.Status)).Inc()
	w.invalidateStats(ctx, g.UserID)
	w.logger.Error("generation job exhausted its attempts",
		"generation_id", g.ID,
		"uuid", g.UUID,
		"attempt", payload.Attempt,
		"error", cause,
	)
	return nil
}

func (w *GenerationWorker) invalidateStats(ctx context.Context, userID int64) {
	if err := w.stats.InvalidateStats(ctx, userID); err != nil {
		w.logger.Warn("failed to invalidate stats cache", "user_id", userID, "error", err)
	}
}
