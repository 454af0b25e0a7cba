package usecase

import (
	"context"
	"io"
	"testing"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStatsAreCachedUntilInvalidated(t *testing.T) {
	f := newWorkerFixture(t, false)
	history := NewHistoryService(f.store, f.stats, nil, logger.Discard())

	_, payload := f.queue(t, &domain.ArticleInput{Topic: "Caching usage statistics"})
	require.NoError(t, f.worker.HandleGenerationJob(context.Background(), payload))

	stats, err := history.Stats(context.Background(), f.user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Overview.TotalGenerations)
	assert.Equal(t, int64(1), stats.Overview.Completed)
	assert.Equal(t, 97, stats.Overview.CurrentBalance)
	assert.Equal(t, domain.TypeUsage{Count: 1, CreditsSpent: 3}, stats.ByType[domain.ContentTypeArticle])
	assert.Equal(t, domain.TypeUsage{}, stats.ByType[domain.ContentTypeTranslation])

	cached, err := history.Stats(context.Background(), f.user)
	require.NoError(t, err)
	assert.Same(t, stats, cached)

	f.queue(t, &domain.SummaryInput{Text: "another record changes the numbers"})
	fresh, err := history.Stats(context.Background(), f.user)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.Overview.TotalGenerations)
	assert.Equal(t, 96, fresh.Overview.CurrentBalance)
}

func TestHistoryListFiltersAcrossTypes(t *testing.T) {
	f := newWorkerFixture(t, false)
	history := NewHistoryService(f.store, f.stats, nil, logger.Discard())

	f.queue(t, &domain.ArticleInput{Topic: "First article topic"})
	_, payload := f.queue(t, &domain.EmailInput{Purpose: "Say hello to the new hire"})
	f.queue(t, &domain.ArticleInput{Topic: "Second article topic"})
	require.NoError(t, f.worker.HandleGenerationJob(context.Background(), payload))

	all, err := history.List(context.Background(), f.user, domain.GenerationFilter{}, domain.NewPageRequest(1, 15))
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	articles, err := history.List(context.Background(), f.user, domain.GenerationFilter{Type: domain.ContentTypeArticle}, domain.NewPageRequest(1, 15))
	require.NoError(t, err)
	assert.Equal(t, int64(2), articles.Total)

	completed, err := history.List(context.Background(), f.user, domain.GenerationFilter{Status: domain.StatusCompleted}, domain.NewPageRequest(1, 15))
	require.NoError(t, err)
	require.Len(t, completed.Items, 1)
	assert.Equal(t, domain.ContentTypeEmail, completed.Items[0].Type)
}

func TestHistoryShowIsScopedToOwner(t *testing.T) {
	f := newWorkerFixture(t, false)
	history := NewHistoryService(f.store, f.stats, nil, logger.Discard())
	stranger := seedUser(t, f.store, "stranger@example.com", 10)

	g, _ := f.queue(t, &domain.RewriteInput{Text: "Private text belongs to one user."})

	got, err := history.Show(context.Background(), f.user, g.UUID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)

	_, err = history.Show(context.Background(), stranger, g.UUID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryOpenArchive(t *testing.T) {
	f := newWorkerFixture(t, true)
	history := NewHistoryService(f.store, f.stats, f.archive, logger.Discard())

	done, payload := f.queue(t, &domain.ArticleInput{Topic: "Archived outputs"})
	require.NoError(t, f.worker.HandleGenerationJob(context.Background(), payload))
	pending, _ := f.queue(t, &domain.ArticleInput{Topic: "Still waiting in the queue"})

	body, g, err := history.OpenArchive(context.Background(), f.user, done.UUID)
	require.NoError(t, err)
	defer body.Close()
	b, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "# Generated\n\nBody text.", string(b))
	assert.Equal(t, done.UUID, g.UUID)

	_, _, err = history.OpenArchive(context.Background(), f.user, pending.UUID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	noArchive := NewHistoryService(f.store, f.stats, nil, logger.Discard())
	_, _, err = noArchive.OpenArchive(context.Background(), f.user, done.UUID)
	require.ErrorIs(t, err, ErrArchiveUnavailable)
}
