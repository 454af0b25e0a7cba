package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"gorm.io/gorm"
)

// GormGenerationStorage is the write side of content_generations.
type GormGenerationStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormGenerationStorage(db *gorm.DB, logger *slog.Logger) *GormGenerationStorage {
	return &GormGenerationStorage{db: db, logger: logger}
}

func (s *GormGenerationStorage) CreateGeneration(ctx context.Context, g *domain.Generation) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		s.logger.Error("failed to create generation", "uuid", g.UUID, "type", g.Type, "error", err)
		return wrapError("create generation", err)
	}

	s.logger.Info("generation created",
		"id", g.ID,
		"uuid", g.UUID,
		"type", g.Type,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// SaveGeneration writes back every mutable column of g.
func (s *GormGenerationStorage) SaveGeneration(ctx context.Context, g *domain.Generation) error {
	res := s.db.WithContext(ctx).Model(g).
		Select("status", "output_text", "metadata", "error_message", "retry_count", "processed_at", "updated_at").
		Updates(g)
	if res.Error != nil {
		s.logger.Error("failed to save generation", "uuid", g.UUID, "status", g.Status, "error", res.Error)
		return wrapError("save generation", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapError("save generation", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *GormGenerationStorage) GetGenerationByID(ctx context.Context, id int64) (*domain.Generation, error) {
	var g domain.Generation
	if err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, wrapError("get generation by id", err)
	}
	return &g, nil
}
