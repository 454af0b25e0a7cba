package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/core/ports"
	"github.com/GoArmGo/ContentGenius/internal/domain"
	nanoid "github.com/jaevor/go-nanoid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLength = 40

type RegisterInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,max=255"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// AuthResult carries the plaintext token. It is shown once and never stored.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService implements AuthUseCase with bcrypt passwords and hashed opaque tokens.
type AuthService struct {
	users           ports.UserStorage
	tokens          ports.TokenStorage
	newToken        func() string
	startingCredits int
	tokenTTL        time.Duration
	now             func() time.Time
	logger          *slog.Logger
}

func NewAuthService(users ports.UserStorage, tokens ports.TokenStorage, startingCredits int, tokenTTL time.Duration, logger *slog.Logger) (*AuthService, error) {
	gen, err := nanoid.Standard(tokenLength)
	if err != nil {
		return nil, fmt.Errorf("usecase: token generator: %w", err)
	}
	return &AuthService{
		users:           users,
		tokens:          tokens,
		newToken:        gen,
		startingCredits: startingCredits,
		tokenTTL:        tokenTTL,
		now:             time.Now,
		logger:          logger,
	}, nil
}

// HashToken is the stored form of a plaintext bearer token.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("usecase: hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Credits:      s.startingCredits,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("usecase: register user: %w", err)
	}

	token, err := s.issueToken(ctx, user, "register")
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "credits", user.Credits)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("usecase: login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user, "login")
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *domain.User, name string) (string, error) {
	plain := s.newToken()
	token := &domain.AccessToken{
		UserID:    user.ID,
		Name:      name,
		TokenHash: HashToken(plain),
	}
	if s.tokenTTL > 0 {
		exp := s.now().Add(s.tokenTTL).UTC()
		token.ExpiresAt = &exp
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return "", fmt.Errorf("usecase: issue token for user %d: %w", user.ID, err)
	}
	return plain, nil
}

func (s *AuthService) Logout(ctx context.Context, token *domain.AccessToken) error {
	if token == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.tokens.DeleteToken(ctx, token.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("usecase: revoke token %d: %w", token.ID, err)
	}
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, plainToken string) (*domain.User, *domain.AccessToken, error) {
	if plainToken == "" {
		return nil, nil, domain.ErrUnauthenticated
	}
	token, err := s.tokens.GetTokenByHash(ctx, HashToken(plainToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("usecase: look up token: %w", err)
	}
	now := s.now()
	if token.Expired(now) {
		return nil, nil, domain.ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("usecase: load token owner: %w", err)
	}

	if err := s.tokens.TouchToken(ctx, token.ID, now.UTC()); err != nil {
		s.logger.Warn("failed to record token use", "token_id", token.ID, "error", err)
	}
	return user, token, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *domain.User, in UpdateProfileInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.users.UpdateUserName(ctx, user.ID, name); err != nil {
		return nil, fmt.Errorf("usecase: update profile of user %d: %w", user.ID, err)
	}
	updated, err := s.users.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: reload user %d: %w", user.ID, err)
	}
	return updated, nil
}
