package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewJSON(t *testing.T, g *domain.Generation) map[string]any {
	t.Helper()
	b, err := json.Marshal(newGenerationView(g))
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestGenerationViewFollowsStatus(t *testing.T) {
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	g := domain.NewGeneration(1, &domain.SummaryInput{Text: "some text", Format: "paragraph"})
	g.CreatedAt = created

	pending := viewJSON(t, g)
	assert.NotContains(t, pending, "output")
	assert.NotContains(t, pending, "error")
	assert.NotContains(t, pending, "metadata")
	assert.Nil(t, pending["processed_at"])
	assert.Equal(t, "2025-06-01T08:00:00Z", pending["created_at"])
	assert.Equal(t, "Text Summary", pending["type_label"])

	require.NoError(t, g.MarkProcessing())
	done := g.Clone()
	require.NoError(t, done.MarkCompleted("- point", map[string]any{"model": "gpt-4o-mini"}, created.Add(time.Minute)))
	completed := viewJSON(t, done)
	assert.Equal(t, map[string]any{"text": "- point"}, completed["output"])
	assert.Equal(t, map[string]any{"model": "gpt-4o-mini"}, completed["metadata"])
	assert.Equal(t, "2025-06-01T08:01:00Z", completed["processed_at"])
	assert.NotContains(t, completed, "error")

	require.NoError(t, g.MarkFailed("provider timed out"))
	failed := viewJSON(t, g)
	assert.Equal(t, map[string]any{"message": "provider timed out", "can_retry": true}, failed["error"])
	assert.NotContains(t, failed, "output")
	assert.NotContains(t, failed, "metadata")
}
