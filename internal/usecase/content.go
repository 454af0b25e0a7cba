package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/google/uuid"
)

// ContentGenerator is the external LLM provider (OpenAI chat completions).
type ContentGenerator interface {
	// Complete runs one prompt. Any error is a provider failure.
	Complete(ctx context.Context, prompt domain.Prompt) (*domain.Completion, error)
}

// OutputArchive is the object storage (S3, MinIO) that keeps a copy of
// every completed output.
type OutputArchive interface {
	// UploadFile stores content under key and returns its location.
	UploadFile(ctx context.Context, key string, content io.Reader, contentType string) (string, error)
	// GetFile opens a stored object. Missing objects yield domain.ErrNotFound.
	GetFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// ContentUseCase is the orchestrator for one content type.
type ContentUseCase interface {
	ContentType() domain.ContentType

	// Create charges the user, stores a pending record and enqueues it.
	// It returns domain.ErrInsufficientCredits without side effects when the
	// balance does not cover the price.
	Create(ctx context.Context, user *domain.User, input domain.ContentInput) (*domain.Generation, error)

	// GetByUUID finds a record of this type owned by user.
	GetByUUID(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Generation, error)

	// ListForUser pages through the user's records of this type, newest first.
	ListForUser(ctx context.Context, user *domain.User, page domain.PageRequest) (*domain.GenerationPage, error)
}

// HistoryUseCase reads across every content type.
type HistoryUseCase interface {
	Show(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Generation, error)
	List(ctx context.Context, user *domain.User, filter domain.GenerationFilter, page domain.PageRequest) (*domain.GenerationPage, error)
	Stats(ctx context.Context, user *domain.User) (*domain.UsageStats, error)
	// OpenArchive streams the archived output of a completed record.
	OpenArchive(ctx context.Context, user *domain.User, id uuid.UUID) (io.ReadCloser, *domain.Generation, error)
}

// AuthUseCase manages accounts and bearer tokens.
type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, token *domain.AccessToken) error
	// Authenticate resolves a plaintext bearer token to its user.
	Authenticate(ctx context.Context, plainToken string) (*domain.User, *domain.AccessToken, error)
	UpdateProfile(ctx context.Context, user *domain.User, in UpdateProfileInput) (*domain.User, error)
}
