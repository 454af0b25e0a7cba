// Package memory is an in-process implementation of the storage ports.
// It backs use-case and handler tests and serializes every mutation behind
// one mutex, matching the row-lock semantics of the Postgres ledger.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users       map[int64]*domain.User
	tokens      map[int64]*domain.AccessToken
	generations map[int64]*domain.Generation

	nextUserID       int64
	nextTokenID      int64
	nextGenerationID int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:       make(map[int64]*domain.User),
		tokens:      make(map[int64]*domain.AccessToken),
		generations: make(map[int64]*domain.Generation),
		now:         time.Now,
	}
}

// SetClock overrides the timestamp source. Records created with a monotonic
// fake clock get a deterministic newest-first order.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}
	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) UpdateUserName(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Name = name
	u.UpdatedAt = s.now()
	return nil
}

// --- credits ---

func (s *Store) DeductCredits(_ context.Context, userID int64, cost int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if u.Credits < cost {
		return false, nil
	}
	u.Credits -= cost
	u.TotalGenerations++
	u.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) RefundCredits(_ context.Context, userID int64, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Credits += amount
	u.UpdatedAt = s.now()
	return nil
}

// SetCredits is a test helper that overwrites a balance.
func (s *Store) SetCredits(userID int64, credits int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Credits = credits
	}
}

// --- tokens ---

func (s *Store) CreateToken(_ context.Context, token *domain.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTokenID++
	token.ID = s.nextTokenID
	token.CreatedAt = s.now()
	cp := *token
	s.tokens[token.ID] = &cp
	return nil
}

func (s *Store) GetTokenByHash(_ context.Context, hash string) (*domain.AccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tokens {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) TouchToken(_ context.Context, id int64, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.LastUsedAt = &usedAt
	return nil
}

func (s *Store) DeleteToken(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, id)
	return nil
}

// --- generations, write side ---

func (s *Store) CreateGeneration(_ context.Context, g *domain.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[g.UserID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range s.generations {
		if existing.UUID == g.UUID {
			return fmt.Errorf("memory: duplicate uuid %s", g.UUID)
		}
	}
	s.nextGenerationID++
	now := s.now()
	g.ID = s.nextGenerationID
	g.CreatedAt, g.UpdatedAt = now, now
	s.generations[g.ID] = g.Clone()
	return nil
}

func (s *Store) SaveGeneration(_ context.Context, g *domain.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.generations[g.ID]; !ok {
		return domain.ErrNotFound
	}
	g.UpdatedAt = s.now()
	s.generations[g.ID] = g.Clone()
	return nil
}

func (s *Store) GetGenerationByID(_ context.Context, id int64) (*domain.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.generations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return g.Clone(), nil
}

// --- generations, read side ---

func matches(g *domain.Generation, userID int64, filter domain.GenerationFilter) bool {
	if g.UserID != userID {
		return false
	}
	if filter.Type != "" && g.Type != filter.Type {
		return false
	}
	if filter.Status != "" && g.Status != filter.Status {
		return false
	}
	return true
}

func (s *Store) FindGeneration(_ context.Context, userID int64, id uuid.UUID, filter domain.GenerationFilter) (*domain.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.generations {
		if g.UUID == id && matches(g, userID, filter) {
			return g.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListGenerations(_ context.Context, userID int64, filter domain.GenerationFilter, page domain.PageRequest) (*domain.GenerationPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*domain.Generation
	for _, g := range s.generations {
		if matches(g, userID, filter) {
			all = append(all, g)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	out := &domain.GenerationPage{Total: int64(len(all)), Page: page.Page, PerPage: page.PerPage, Items: []domain.Generation{}}
	start := page.Offset()
	if start >= len(all) {
		return out, nil
	}
	end := start + page.PerPage
	if end > len(all) {
		end = len(all)
	}
	for _, g := range all[start:end] {
		out.Items = append(out.Items, *g.Clone())
	}
	return out, nil
}

func (s *Store) UsageStats(_ context.Context, userID int64) (*domain.UsageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	stats := domain.NewUsageStats()
	for _, g := range s.generations {
		if g.UserID != userID {
			continue
		}
		usage := stats.ByType[g.Type]
		usage.Count++
		usage.CreditsSpent += int64(g.CreditsUsed)
		stats.ByType[g.Type] = usage

		stats.Overview.TotalGenerations++
		stats.Overview.TotalCreditsSpent += int64(g.CreditsUsed)
		switch g.Status {
		case domain.StatusCompleted:
			stats.Overview.Completed++
		case domain.StatusFailed:
			stats.Overview.Failed++
		}
	}
	stats.Overview.CurrentBalance = u.Credits
	return stats, nil
}
