package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArticle(t *testing.T) *Generation {
	t.Helper()
	g := NewGeneration(7, ArticleInput{Topic: "The History of Roman Aqueducts and their Lasting Engineering Legacy"})
	require.Equal(t, StatusPending, g.Status)
	return g
}

func TestNewGeneration(t *testing.T) {
	g := newArticle(t)

	assert.NotEqual(t, uuid.Nil, g.UUID)
	assert.Equal(t, int64(7), g.UserID)
	assert.Equal(t, ContentTypeArticle, g.Type)
	assert.Equal(t, 3, g.CreditsUsed)
	assert.Equal(t, "professional", g.InputParameters["tone"])
	assert.Equal(t, 500, g.InputParameters["word_count"])
	assert.Nil(t, g.OutputText)
	assert.Nil(t, g.ErrorMessage)
	assert.Zero(t, g.RetryCount)

	other := newArticle(t)
	assert.NotEqual(t, g.UUID, other.UUID)
}

func TestGenerationCompletedPath(t *testing.T) {
	g := newArticle(t)
	id := g.UUID

	require.NoError(t, g.MarkProcessing())
	require.Equal(t, StatusProcessing, g.Status)
	_, ok := g.Output()
	require.False(t, ok)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, g.MarkCompleted("# Aqueducts", map[string]any{"model": "gpt-4o-mini"}, at))

	out, ok := g.Output()
	require.True(t, ok)
	require.Equal(t, "# Aqueducts", out)
	_, failed := g.Failure()
	require.False(t, failed)
	require.Equal(t, at, *g.ProcessedAt)
	require.Equal(t, "gpt-4o-mini", g.Metadata["model"])
	require.Equal(t, id, g.UUID)
	require.False(t, g.CanRetry())
}

func TestGenerationFailedPath(t *testing.T) {
	g := newArticle(t)
	require.NoError(t, g.MarkProcessing())
	require.NoError(t, g.MarkFailed("provider timed out"))

	msg, ok := g.Failure()
	require.True(t, ok)
	require.Equal(t, "provider timed out", msg)
	_, completed := g.Output()
	require.False(t, completed)
	require.Equal(t, 1, g.RetryCount)
	require.Nil(t, g.ProcessedAt)
	require.True(t, g.CanRetry())
}

func TestGenerationIllegalTransitions(t *testing.T) {
	cases := []struct {
		name  string
		setup func(g *Generation)
		act   func(g *Generation) error
	}{
		{"complete from pending", func(*Generation) {}, func(g *Generation) error {
			return g.MarkCompleted("x", nil, time.Now())
		}},
		{"fail from pending", func(*Generation) {}, func(g *Generation) error {
			return g.MarkFailed("x")
		}},
		{"processing after completed", func(g *Generation) {
			_ = g.MarkProcessing()
			_ = g.MarkCompleted("x", nil, time.Now())
		}, func(g *Generation) error { return g.MarkProcessing() }},
		{"fail after completed", func(g *Generation) {
			_ = g.MarkProcessing()
			_ = g.MarkCompleted("x", nil, time.Now())
		}, func(g *Generation) error { return g.MarkFailed("x") }},
		{"complete after failed", func(g *Generation) {
			_ = g.MarkProcessing()
			_ = g.MarkFailed("x")
		}, func(g *Generation) error { return g.MarkCompleted("x", nil, time.Now()) }},
		{"processing after failed", func(g *Generation) {
			_ = g.MarkProcessing()
			_ = g.MarkFailed("x")
		}, func(g *Generation) error { return g.MarkProcessing() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newArticle(t)
			tc.setup(g)
			before := g.Status
			err := tc.act(g)
			require.True(t, errors.Is(err, ErrInvalidTransition), "got %v", err)
			require.Equal(t, before, g.Status)
		})
	}
}

func TestGenerationReprocessingIsAllowed(t *testing.T) {
	g := newArticle(t)
	require.NoError(t, g.MarkProcessing())
	require.NoError(t, g.MarkProcessing())
	require.Equal(t, StatusProcessing, g.Status)
}

func TestCanRetryBound(t *testing.T) {
	g := newArticle(t)
	g.Status = StatusFailed
	g.RetryCount = MaxRetries - 1
	require.True(t, g.CanRetry())
	g.RetryCount = MaxRetries
	require.False(t, g.CanRetry())
}

func TestCloneIsIndependent(t *testing.T) {
	g := newArticle(t)
	require.NoError(t, g.MarkProcessing())
	require.NoError(t, g.MarkCompleted("body", map[string]any{"model": "m"}, time.Now()))

	c := g.Clone()
	*c.OutputText = "changed"
	c.Metadata["model"] = "other"
	c.InputParameters["tone"] = "casual"

	out, _ := g.Output()
	require.Equal(t, "body", out)
	require.Equal(t, "m", g.Metadata["model"])
	require.Equal(t, "professional", g.InputParameters["tone"])
}
