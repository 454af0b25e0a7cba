package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/GoArmGo/ContentGenius/internal/core/ports"
	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/google/uuid"
)

// ErrArchiveUnavailable is returned by OpenArchive when no object storage is configured.
var ErrArchiveUnavailable = errors.New("output archive is not configured")

// HistoryService implements HistoryUseCase on the read model.
type HistoryService struct {
	reader  ports.GenerationReader
	cache   ports.StatsCache
	archive OutputArchive
	logger  *slog.Logger
}

// NewHistoryService builds the history reader. archive may be nil.
func NewHistoryService(reader ports.GenerationReader, cache ports.StatsCache, archive OutputArchive, logger *slog.Logger) *HistoryService {
	return &HistoryService{reader: reader, cache: cache, archive: archive, logger: logger}
}

func (s *HistoryService) Show(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Generation, error) {
	g, err := s.reader.FindGeneration(ctx, user.ID, id, domain.GenerationFilter{})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("usecase: show generation %s: %w", id, err)
	}
	return g, nil
}

func (s *HistoryService) List(ctx context.Context, user *domain.User, filter domain.GenerationFilter, page domain.PageRequest) (*domain.GenerationPage, error) {
	result, err := s.reader.ListGenerations(ctx, user.ID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("usecase: list history: %w", err)
	}
	return result, nil
}

// Stats serves from the cache when possible. Cache errors degrade to a
// database read.
func (s *HistoryService) Stats(ctx context.Context, user *domain.User) (*domain.UsageStats, error) {
	cached, err := s.cache.GetStats(ctx, user.ID)
	if err != nil {
		s.logger.Warn("stats cache read failed", "user_id", user.ID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	stats, err := s.reader.UsageStats(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: usage stats for user %d: %w", user.ID, err)
	}
	if err := s.cache.SetStats(ctx, user.ID, stats); err != nil {
		s.logger.Warn("stats cache write failed", "user_id", user.ID, "error", err)
	}
	return stats, nil
}

// OpenArchive returns the archived output of a completed record owned by user.
// Callers must close the reader.
func (s *HistoryService) OpenArchive(ctx context.Context, user *domain.User, id uuid.UUID) (io.ReadCloser, *domain.Generation, error) {
	if s.archive == nil {
		return nil, nil, ErrArchiveUnavailable
	}
	g, err := s.Show(ctx, user, id)
	if err != nil {
		return nil, nil, err
	}
	key, _ := g.Metadata["archive_key"].(string)
	if g.Status != domain.StatusCompleted || key == "" {
		return nil, nil, domain.ErrNotFound
	}

	body, err := s.archive.GetFile(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("usecase: open archive %s: %w", key, err)
	}
	return body, g, nil
}
