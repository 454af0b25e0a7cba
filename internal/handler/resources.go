package handler

import (
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
)

type inputView struct {
	Text       string         `json:"text"`
	Parameters map[string]any `json:"parameters"`
}

type outputView struct {
	Text string `json:"text"`
}

type errorView struct {
	Message  string `json:"message"`
	CanRetry bool   `json:"can_retry"`
}

// generationView is the public shape of a generation record. Output and
// metadata appear only when completed, the error block only when failed.
type generationView struct {
	UUID        string      `json:"uuid"`
	Type        string      `json:"type"`
	TypeLabel   string      `json:"type_label"`
	Status      string      `json:"status"`
	StatusLabel string      `json:"status_label"`
	Input       inputView   `json:"input"`
	Output      *outputView `json:"output,omitempty"`
	Error       *errorView  `json:"error,omitempty"`
	CreditsUsed int         `json:"credits_used"`
	Metadata    any         `json:"metadata,omitempty"`
	ProcessedAt *string     `json:"processed_at"`
	CreatedAt   string      `json:"created_at"`
}

func newGenerationView(g *domain.Generation) generationView {
	params := map[string]any(g.InputParameters)
	if params == nil {
		params = map[string]any{}
	}
	v := generationView{
		UUID:        g.UUID.String(),
		Type:        string(g.Type),
		TypeLabel:   g.Type.Label(),
		Status:      string(g.Status),
		StatusLabel: g.Status.Label(),
		Input:       inputView{Text: g.InputText, Parameters: params},
		CreditsUsed: g.CreditsUsed,
		CreatedAt:   g.CreatedAt.UTC().Format(time.RFC3339),
	}
	if out, ok := g.Output(); ok {
		v.Output = &outputView{Text: out}
		metadata := map[string]any(g.Metadata)
		if metadata == nil {
			metadata = map[string]any{}
		}
		v.Metadata = metadata
	}
	if msg, ok := g.Failure(); ok {
		v.Error = &errorView{Message: msg, CanRetry: g.CanRetry()}
	}
	if g.ProcessedAt != nil {
		s := g.ProcessedAt.UTC().Format(time.RFC3339)
		v.ProcessedAt = &s
	}
	return v
}

func newGenerationViews(items []domain.Generation) []generationView {
	out := make([]generationView, 0, len(items))
	for i := range items {
		out = append(out, newGenerationView(&items[i]))
	}
	return out
}

type paginationView struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

func newPaginationView(p *domain.GenerationPage) paginationView {
	return paginationView{
		CurrentPage: p.Page,
		LastPage:    p.LastPage(),
		PerPage:     p.PerPage,
		Total:       p.Total,
	}
}

type userView struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Credits          int    `json:"credits"`
	TotalGenerations int    `json:"total_generations"`
	CreatedAt        string `json:"created_at"`
}

func newUserView(u *domain.User) userView {
	return userView{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Credits:          u.Credits,
		TotalGenerations: u.TotalGenerations,
		CreatedAt:        u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
