package postgres

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/database/client"
	"github.com/GoArmGo/ContentGenius/internal/database/storage"
	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/logger"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestDB starts a throwaway PostgreSQL and applies the migrations.
// Skipped when no container runtime is reachable or in -short mode.
func newTestDB(t *testing.T) *client.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("contentgenius"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := client.NewClient(ctx, dsn, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, ApplyMigrations(db.DB.DB, logger.Discard()))
	// second run is a no-op
	require.NoError(t, ApplyMigrations(db.DB.DB, logger.Discard()))
	return db
}

func createUser(t *testing.T, users *GormUserStorage, email string, credits int) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Ada", Email: email, PasswordHash: "x", Credits: credits}
	require.NoError(t, users.CreateUser(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func TestPostgresStorage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := logger.Discard()

	users := NewGormUserStorage(db.Gorm, log)
	credits := NewGormCreditStorage(db.Gorm, log)
	generations := NewGormGenerationStorage(db.Gorm, log)
	queries := storage.NewGenerationQueries(db.DB, log)

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		createUser(t, users, "dup@example.com", 10)
		err := users.CreateUser(ctx, &domain.User{Name: "Other", Email: " DUP@example.com ", PasswordHash: "x"})
		require.ErrorIs(t, err, domain.ErrEmailTaken)

		found, err := users.GetUserByEmail(ctx, "Dup@Example.com")
		require.NoError(t, err)
		require.Equal(t, "dup@example.com", found.Email)
	})

	t.Run("concurrent deductions never overdraw", func(t *testing.T) {
		u := createUser(t, users, "race@example.com", 5)

		var wg sync.WaitGroup
		var succeeded atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := credits.DeductCredits(ctx, u.ID, 2)
				if err == nil && ok {
					succeeded.Add(1)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int32(2), succeeded.Load())
		reloaded, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 1, reloaded.Credits)
		require.Equal(t, 2, reloaded.TotalGenerations)
	})

	t.Run("refund restores balance", func(t *testing.T) {
		u := createUser(t, users, "refund@example.com", 0)
		require.NoError(t, credits.RefundCredits(ctx, u.ID, 3))
		reloaded, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 3, reloaded.Credits)

		require.ErrorIs(t, credits.RefundCredits(ctx, 999999, 1), domain.ErrNotFound)
	})

	t.Run("generation lifecycle is visible to the read side", func(t *testing.T) {
		u := createUser(t, users, "writer@example.com", 10)
		wordCount := 500
		g := domain.NewGeneration(u.ID, &domain.ArticleInput{Topic: "The history of Roman aqueducts", WordCount: &wordCount})
		require.NoError(t, generations.CreateGeneration(ctx, g))
		require.NotZero(t, g.ID)

		pending, err := queries.FindGeneration(ctx, u.ID, g.UUID, domain.GenerationFilter{Type: domain.ContentTypeArticle})
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, pending.Status)

		require.NoError(t, g.MarkProcessing())
		require.NoError(t, generations.SaveGeneration(ctx, g))
		require.NoError(t, g.MarkCompleted("# Aqueducts", map[string]any{"model": "gpt-4o-mini"}, time.Now().UTC()))
		require.NoError(t, generations.SaveGeneration(ctx, g))

		done, err := queries.FindGeneration(ctx, u.ID, g.UUID, domain.GenerationFilter{})
		require.NoError(t, err)
		out, ok := done.Output()
		require.True(t, ok)
		require.Equal(t, "# Aqueducts", out)
		require.Equal(t, "gpt-4o-mini", done.Metadata["model"])

		_, err = queries.FindGeneration(ctx, u.ID, g.UUID, domain.GenerationFilter{Type: domain.ContentTypeEmail})
		require.ErrorIs(t, err, domain.ErrNotFound)

		_, err = queries.FindGeneration(ctx, u.ID+1000, g.UUID, domain.GenerationFilter{})
		require.ErrorIs(t, err, domain.ErrNotFound)

		stats, err := queries.UsageStats(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), stats.Overview.TotalGenerations)
		require.Equal(t, int64(1), stats.Overview.Completed)
		require.Len(t, stats.ByType, len(domain.AllContentTypes()))
	})

	t.Run("history pages newest first", func(t *testing.T) {
		u := createUser(t, users, "pager@example.com", 10)
		for i := 0; i < 3; i++ {
			g := domain.NewGeneration(u.ID, &domain.RewriteInput{Text: fmt.Sprintf("rewrite number %d with enough text", i)})
			require.NoError(t, generations.CreateGeneration(ctx, g))
		}

		page, err := queries.ListGenerations(ctx, u.ID, domain.GenerationFilter{}, domain.NewPageRequest(1, 2))
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		require.Equal(t, int64(3), page.Total)
	})
}
