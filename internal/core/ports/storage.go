package ports

import (
	"context"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/google/uuid"
)

// UserStorage persists accounts.
type UserStorage interface {
	// CreateUser inserts user and fills its ID. Returns domain.ErrEmailTaken on a duplicate email.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserName(ctx context.Context, id int64, name string) error
}

// CreditStorage owns every mutation of a user's credit balance.
type CreditStorage interface {
	// DeductCredits atomically re-reads the balance under a row lock and, when it
	// covers cost, subtracts cost and increments total_generations.
	// It reports false without changes when the balance is insufficient.
	DeductCredits(ctx context.Context, userID int64, cost int) (bool, error)
	// RefundCredits unconditionally adds amount to the balance.
	RefundCredits(ctx context.Context, userID int64, amount int) error
}

// TokenStorage persists hashed bearer tokens.
type TokenStorage interface {
	CreateToken(ctx context.Context, token *domain.AccessToken) error
	GetTokenByHash(ctx context.Context, hash string) (*domain.AccessToken, error)
	TouchToken(ctx context.Context, id int64, usedAt time.Time) error
	DeleteToken(ctx context.Context, id int64) error
}

// GenerationStorage is the write side of generation records.
type GenerationStorage interface {
	// CreateGeneration inserts a pending record and fills ID and timestamps.
	CreateGeneration(ctx context.Context, g *domain.Generation) error
	// SaveGeneration persists the current state of an existing record.
	SaveGeneration(ctx context.Context, g *domain.Generation) error
	GetGenerationByID(ctx context.Context, id int64) (*domain.Generation, error)
}

// GenerationReader is the read side used by status and history queries.
// Every method is scoped to one user.
type GenerationReader interface {
	FindGeneration(ctx context.Context, userID int64, id uuid.UUID, filter domain.GenerationFilter) (*domain.Generation, error)
	ListGenerations(ctx context.Context, userID int64, filter domain.GenerationFilter, page domain.PageRequest) (*domain.GenerationPage, error)
	UsageStats(ctx context.Context, userID int64) (*domain.UsageStats, error)
}

// StatsCache memoizes per-user usage stats.
type StatsCache interface {
	// GetStats returns (nil, nil) on a miss.
	GetStats(ctx context.Context, userID int64) (*domain.UsageStats, error)
	SetStats(ctx context.Context, userID int64, stats *domain.UsageStats) error
	InvalidateStats(ctx context.Context, userID int64) error
}
