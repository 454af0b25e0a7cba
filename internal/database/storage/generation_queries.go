package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const generationColumns = `id, uuid, user_id, type, status, input_text, input_parameters, output_text,
	metadata, error_message, retry_count, credits_used, processed_at, created_at, updated_at`

// GenerationQueries is the sqlx read model behind status and history queries.
// It implements ports.GenerationReader.
type GenerationQueries struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewGenerationQueries(db *sqlx.DB, logger *slog.Logger) *GenerationQueries {
	return &GenerationQueries{db: db, logger: logger}
}

// whereClause builds the user-scoped predicate and its positional args.
func whereClause(userID int64, filter domain.GenerationFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

// FindGeneration returns the record with id owned by userID, or domain.ErrNotFound.
func (q *GenerationQueries) FindGeneration(ctx context.Context, userID int64, id uuid.UUID, filter domain.GenerationFilter) (*domain.Generation, error) {
	where, args := whereClause(userID, filter)
	args = append(args, id)
	query := fmt.Sprintf(`SELECT %s FROM content_generations WHERE %s AND uuid = $%d LIMIT 1`,
		generationColumns, where, len(args))

	var g domain.Generation
	if err := q.db.GetContext(ctx, &g, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		q.logger.Error("failed to find generation", "user_id", userID, "uuid", id, "error", err)
		return nil, fmt.Errorf("storage: find generation: %w", err)
	}
	return &g, nil
}

// ListGenerations returns one page, newest first.
func (q *GenerationQueries) ListGenerations(ctx context.Context, userID int64, filter domain.GenerationFilter, page domain.PageRequest) (*domain.GenerationPage, error) {
	start := time.Now()
	where, args := whereClause(userID, filter)

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM content_generations WHERE %s`, where)
	if err := q.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		q.logger.Error("failed to count generations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("storage: count generations: %w", err)
	}

	items := []domain.Generation{}
	if total > 0 {
		listArgs := append(args, page.PerPage, page.Offset())
		listQuery := fmt.Sprintf(`SELECT %s FROM content_generations WHERE %s
			ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			generationColumns, where, len(listArgs)-1, len(listArgs))
		if err := q.db.SelectContext(ctx, &items, listQuery, listArgs...); err != nil {
			q.logger.Error("failed to list generations", "user_id", userID, "error", err)
			return nil, fmt.Errorf("storage: list generations: %w", err)
		}
	}

	q.logger.Debug("generations listed",
		"user_id", userID,
		"type", filter.Type,
		"status", filter.Status,
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &domain.GenerationPage{Items: items, Total: total, Page: page.Page, PerPage: page.PerPage}, nil
}

type typeUsageRow struct {
	Type         string `db:"type"`
	Count        int64  `db:"count"`
	CreditsSpent int64  `db:"credits_spent"`
}

// UsageStats aggregates a user's records by type and overall.
func (q *GenerationQueries) UsageStats(ctx context.Context, userID int64) (*domain.UsageStats, error) {
	var balance int
	if err := q.db.GetContext(ctx, &balance, `SELECT credits FROM users WHERE id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: load balance: %w", err)
	}

	var rows []typeUsageRow
	if err := q.db.SelectContext(ctx, &rows, `
		SELECT type, COUNT(*) AS count, COALESCE(SUM(credits_used), 0) AS credits_spent
		FROM content_generations
		WHERE user_id = $1
		GROUP BY type`, userID); err != nil {
		return nil, fmt.Errorf("storage: usage by type: %w", err)
	}

	stats := domain.NewUsageStats()
	if err := q.db.GetContext(ctx, &stats.Overview, `
		SELECT COUNT(*) AS total_generations,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		       COUNT(*) FILTER (WHERE status = 'failed') AS failed,
		       COALESCE(SUM(credits_used), 0) AS total_credits_spent
		FROM content_generations
		WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("storage: usage overview: %w", err)
	}

	for _, r := range rows {
		stats.ByType[domain.ContentType(r.Type)] = domain.TypeUsage{Count: r.Count, CreditsSpent: r.CreditsSpent}
	}
	stats.Overview.CurrentBalance = balance
	return stats, nil
}
