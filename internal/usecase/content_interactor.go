package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ContentGenius/internal/core/ports"
	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/messaging/payloads"
	"github.com/GoArmGo/ContentGenius/internal/metrics"
	"github.com/google/uuid"
)

// ContentService implements ContentUseCase for a single content type.
// One instance exists per type; they share every dependency.
type ContentService struct {
	contentType domain.ContentType
	credits     *CreditService
	generations ports.GenerationStorage
	reader      ports.GenerationReader
	publisher   ports.GenerationJobPublisher
	stats       ports.StatsCache
	logger      *slog.Logger
}

func NewContentService(
	contentType domain.ContentType,
	credits *CreditService,
	generations ports.GenerationStorage,
	reader ports.GenerationReader,
	publisher ports.GenerationJobPublisher,
	stats ports.StatsCache,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		contentType: contentType,
		credits:     credits,
		generations: generations,
		reader:      reader,
		publisher:   publisher,
		stats:       stats,
		logger:      logger.With("content_type", string(contentType)),
	}
}

func (s *ContentService) ContentType() domain.ContentType {
	return s.contentType
}

// Create runs check, deduct, insert, enqueue in that order.
func (s *ContentService) Create(ctx context.Context, user *domain.User, input domain.ContentInput) (*domain.Generation, error) {
	if input.ContentType() != s.contentType {
		return nil, fmt.Errorf("usecase: %w: %s service got %s input", domain.ErrContentTypeMismatch, s.contentType, input.ContentType())
	}

	cost := s.credits.Cost(s.contentType)
	if !s.credits.HasSufficientBalance(user, cost) {
		metrics.InsufficientCredits.WithLabelValues(string(s.contentType)).Inc()
		return nil, domain.ErrInsufficientCredits
	}

	ok, err := s.credits.Deduct(ctx, user, cost)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost a race with a concurrent request since the pre-check
		s.logger.Info("deduction rejected", "user_id", user.ID, "cost", cost)
		metrics.InsufficientCredits.WithLabelValues(string(s.contentType)).Inc()
		return nil, domain.ErrInsufficientCredits
	}

	g := domain.NewGeneration(user.ID, input)
	if err := s.generations.CreateGeneration(ctx, g); err != nil {
		s.refundAfterFailure(ctx, user, cost)
		return nil, fmt.Errorf("usecase: create generation: %w", err)
	}

	payload := payloads.GenerationJobPayload{
		GenerationID: g.ID,
		UUID:         g.UUID.String(),
		Type:         string(g.Type),
		Attempt:      1,
	}
	if err := s.publisher.PublishGenerationJob(ctx, payload); err != nil {
		s.abandon(ctx, user, g, err)
		return nil, fmt.Errorf("usecase: enqueue generation %s: %w", g.UUID, err)
	}

	s.invalidateStats(ctx, user.ID)
	metrics.GenerationsCreated.WithLabelValues(string(s.contentType)).Inc()
	s.logger.Info("generation queued",
		"user_id", user.ID,
		"uuid", g.UUID,
		"credits_used", g.CreditsUsed,
	)
	return g, nil
}

// abandon fails a record that never reached the queue and returns the credits.
// The record still passes through processing so its status history stays a
// valid prefix of pending, processing, failed.
func (s *ContentService) abandon(ctx context.Context, user *domain.User, g *domain.Generation, cause error) {
	ctx = context.WithoutCancel(ctx)

	if err := g.MarkProcessing(); err == nil {
		if err := s.generations.SaveGeneration(ctx, g); err != nil {
			s.logger.Error("failed to save abandoned generation", "uuid", g.UUID, "error", err)
		}
	}
	if err := g.MarkFailed("Job could not be queued: " + cause.Error()); err == nil {
		if err := s.generations.SaveGeneration(ctx, g); err != nil {
			s.logger.Error("failed to save abandoned generation", "uuid", g.UUID, "error", err)
		}
	}
	s.refundAfterFailure(ctx, user, g.CreditsUsed)
	s.invalidateStats(ctx, user.ID)
}

func (s *ContentService) refundAfterFailure(ctx context.Context, user *domain.User, cost int) {
	if err := s.credits.Refund(context.WithoutCancel(ctx), user, cost); err != nil {
		s.logger.Error("failed to refund credits after infrastructure failure",
			"user_id", user.ID,
			"amount", cost,
			"error", err,
		)
	}
}

func (s *ContentService) invalidateStats(ctx context.Context, userID int64) {
	if err := s.stats.InvalidateStats(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate stats cache", "user_id", userID, "error", err)
	}
}

func (s *ContentService) GetByUUID(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Generation, error) {
	g, err := s.reader.FindGeneration(ctx, user.ID, id, domain.GenerationFilter{Type: s.contentType})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("usecase: get %s %s: %w", s.contentType, id, err)
	}
	return g, nil
}

func (s *ContentService) ListForUser(ctx context.Context, user *domain.User, page domain.PageRequest) (*domain.GenerationPage, error) {
	result, err := s.reader.ListGenerations(ctx, user.ID, domain.GenerationFilter{Type: s.contentType}, page)
	if err != nil {
		return nil, fmt.Errorf("usecase: list %s records: %w", s.contentType, err)
	}
	return result, nil
}
