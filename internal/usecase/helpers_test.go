package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/database/memory"
	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/logger"
	"github.com/GoArmGo/ContentGenius/internal/messaging/payloads"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	err      error
	payloads []payloads.GenerationJobPayload
}

func (p *fakePublisher) PublishGenerationJob(_ context.Context, payload payloads.GenerationJobPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() []payloads.GenerationJobPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]payloads.GenerationJobPayload(nil), p.payloads...)
}

type fakeGenerator struct {
	mu      sync.Mutex
	content string
	err     error
	block   bool
	prompts []domain.Prompt
}

func (g *fakeGenerator) Complete(ctx context.Context, prompt domain.Prompt) (*domain.Completion, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if g.err != nil {
		return nil, g.err
	}
	return &domain.Completion{
		Content: g.content,
		Model:   "gpt-4o-mini",
		Usage:   domain.TokenUsage{PromptTokens: 40, CompletionTokens: 120, TotalTokens: 160},
	}, nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: map[string][]byte{}}
}

func (a *fakeArchive) UploadFile(_ context.Context, key string, content io.Reader, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[key] = b
	return "http://archive.local/" + key, nil
}

func (a *fakeArchive) GetFile(_ context.Context, key string) (io.ReadCloser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// recordingStore remembers every status a record is saved with.
type recordingStore struct {
	*memory.Store
	mu       sync.Mutex
	statuses map[int64][]domain.Status
	saveErr  error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: memory.New(), statuses: map[int64][]domain.Status{}}
}

func (s *recordingStore) SaveGeneration(ctx context.Context, g *domain.Generation) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if err := s.Store.SaveGeneration(ctx, g); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[g.ID] = append(s.statuses[g.ID], g.Status)
	return nil
}

func (s *recordingStore) history(id int64) []domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Status(nil), s.statuses[id]...)
}

type spyCache struct {
	mu          sync.Mutex
	stored      map[int64]*domain.UsageStats
	gets        int
	invalidated int
}

func newSpyCache() *spyCache {
	return &spyCache{stored: map[int64]*domain.UsageStats{}}
}

func (c *spyCache) GetStats(_ context.Context, userID int64) (*domain.UsageStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.stored[userID], nil
}

func (c *spyCache) SetStats(_ context.Context, userID int64, stats *domain.UsageStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[userID] = stats
	return nil
}

func (c *spyCache) InvalidateStats(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	delete(c.stored, userID)
	return nil
}

var errBroker = errors.New("broker unreachable")

// tickingClock returns strictly increasing timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func seedUser(t *testing.T, store interface {
	CreateUser(context.Context, *domain.User) error
}, email string, credits int) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Test User", Email: email, Credits: credits}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func newTestContentService(t domain.ContentType, store *recordingStore, pub *fakePublisher, stats *spyCache) *ContentService {
	log := logger.Discard()
	return NewContentService(t, NewCreditService(store, log), store, store, pub, stats, log)
}

func intPtr(v int) *int { return &v }
