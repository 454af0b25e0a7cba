package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MaxRetries bounds the retry eligibility of a failed record.
const MaxRetries = 3

// Generation is one content-generation unit of work,
// mapped to the content_generations table.
//
// Status changes only through MarkProcessing, MarkCompleted and MarkFailed.
type Generation struct {
	ID              int64             `gorm:"column:id;primaryKey" db:"id"`
	UUID            uuid.UUID         `gorm:"column:uuid;type:uuid;uniqueIndex" db:"uuid"`
	UserID          int64             `gorm:"column:user_id" db:"user_id"`
	Type            ContentType       `gorm:"column:type" db:"type"`
	Status          Status            `gorm:"column:status" db:"status"`
	InputText       string            `gorm:"column:input_text" db:"input_text"`
	InputParameters datatypes.JSONMap `gorm:"column:input_parameters;type:jsonb" db:"input_parameters"`
	OutputText      *string           `gorm:"column:output_text" db:"output_text"`
	Metadata        datatypes.JSONMap `gorm:"column:metadata;type:jsonb" db:"metadata"`
	ErrorMessage    *string           `gorm:"column:error_message" db:"error_message"`
	RetryCount      int               `gorm:"column:retry_count" db:"retry_count"`
	CreditsUsed     int               `gorm:"column:credits_used" db:"credits_used"`
	ProcessedAt     *time.Time        `gorm:"column:processed_at" db:"processed_at"`
	CreatedAt       time.Time         `gorm:"column:created_at" db:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at" db:"updated_at"`
}

func (Generation) TableName() string {
	return "content_generations"
}

// NewGeneration builds a pending record for input, priced by its content type.
func NewGeneration(userID int64, input ContentInput) *Generation {
	t := input.ContentType()
	return &Generation{
		UUID:            uuid.New(),
		UserID:          userID,
		Type:            t,
		Status:          StatusPending,
		InputText:       input.InputText(),
		InputParameters: datatypes.JSONMap(input.Parameters()),
		CreditsUsed:     t.CreditCost(),
	}
}

// MarkProcessing moves a pending record into processing. Re-marking a
// processing record is allowed so redelivered jobs can run again.
func (g *Generation) MarkProcessing() error {
	if g.Status != StatusPending && g.Status != StatusProcessing {
		return g.transitionError(StatusProcessing)
	}
	g.Status = StatusProcessing
	return nil
}

// MarkCompleted stores the provider output and stamps processed_at.
func (g *Generation) MarkCompleted(output string, metadata map[string]any, at time.Time) error {
	if g.Status != StatusProcessing {
		return g.transitionError(StatusCompleted)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	g.Status = StatusCompleted
	g.OutputText = &output
	g.Metadata = datatypes.JSONMap(metadata)
	g.ErrorMessage = nil
	processed := at.UTC()
	g.ProcessedAt = &processed
	return nil
}

// MarkFailed records the failure reason and bumps the retry counter.
func (g *Generation) MarkFailed(message string) error {
	if g.Status != StatusProcessing {
		return g.transitionError(StatusFailed)
	}
	g.Status = StatusFailed
	g.ErrorMessage = &message
	g.OutputText = nil
	g.Metadata = nil
	g.RetryCount++
	return nil
}

func (g *Generation) transitionError(to Status) error {
	return fmt.Errorf("%w: %s -> %s (generation %s)", ErrInvalidTransition, g.Status, to, g.UUID)
}

// CanRetry reports whether a failed record is still eligible for another attempt.
func (g *Generation) CanRetry() bool {
	return g.Status == StatusFailed && g.RetryCount < MaxRetries
}

// Output returns the generated text when the record is completed.
func (g *Generation) Output() (string, bool) {
	if g.Status != StatusCompleted || g.OutputText == nil {
		return "", false
	}
	return *g.OutputText, true
}

// Failure returns the error message when the record has failed.
func (g *Generation) Failure() (string, bool) {
	if g.Status != StatusFailed || g.ErrorMessage == nil {
		return "", false
	}
	return *g.ErrorMessage, true
}

// Clone returns a deep copy, so callers holding a record cannot mutate shared state.
func (g *Generation) Clone() *Generation {
	c := *g
	c.InputParameters = cloneMap(g.InputParameters)
	if g.Metadata != nil {
		c.Metadata = cloneMap(g.Metadata)
	}
	if g.OutputText != nil {
		s := *g.OutputText
		c.OutputText = &s
	}
	if g.ErrorMessage != nil {
		s := *g.ErrorMessage
		c.ErrorMessage = &s
	}
	if g.ProcessedAt != nil {
		t := *g.ProcessedAt
		c.ProcessedAt = &t
	}
	return &c
}

func cloneMap(m datatypes.JSONMap) datatypes.JSONMap {
	if m == nil {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GenerationFilter narrows listings. Zero values mean "any".
type GenerationFilter struct {
	Type   ContentType
	Status Status
}
