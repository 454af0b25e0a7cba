package domain

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// PageRequest is a clamped page/per_page pair.
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest clamps page to >= 1 and perPage to [1, MaxPerPage],
// substituting DefaultPerPage for non-positive values.
func NewPageRequest(page, perPage int) PageRequest {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// GenerationPage is one page of records, newest first.
type GenerationPage struct {
	Items   []Generation
	Total   int64
	Page    int
	PerPage int
}

// LastPage is never below 1, even for an empty result.
func (p GenerationPage) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

type TypeUsage struct {
	Count        int64 `json:"count" db:"count"`
	CreditsSpent int64 `json:"credits_spent" db:"credits_spent"`
}

type UsageOverview struct {
	TotalGenerations  int64 `json:"total_generations" db:"total_generations"`
	Completed         int64 `json:"completed" db:"completed"`
	Failed            int64 `json:"failed" db:"failed"`
	TotalCreditsSpent int64 `json:"total_credits_spent" db:"total_credits_spent"`
	CurrentBalance    int   `json:"current_balance" db:"current_balance"`
}

// UsageStats aggregates a user's generations. ByType lists every content
// type, zero-filled when unused.
type UsageStats struct {
	ByType   map[ContentType]TypeUsage `json:"by_type"`
	Overview UsageOverview             `json:"overview"`
}

// NewUsageStats returns stats with every content type present and zeroed.
func NewUsageStats() *UsageStats {
	s := &UsageStats{ByType: make(map[ContentType]TypeUsage, len(contentTypes))}
	for _, t := range contentTypes {
		s.ByType[t] = TypeUsage{}
	}
	return s
}
