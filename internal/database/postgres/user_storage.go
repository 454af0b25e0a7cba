package postgres

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"gorm.io/gorm"
)

// GormUserStorage implements ports.UserStorage and ports.TokenStorage with GORM.
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// CreateUser inserts a new account. Emails are stored lowercased.
func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to create user", "email", user.Email, "error", err)
		return wrapError("create user", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormUserStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapError("get user by id", err)
	}
	return &user, nil
}

func (s *GormUserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, wrapError("get user by email", err)
	}
	return &user, nil
}

func (s *GormUserStorage) UpdateUserName(ctx context.Context, id int64, name string) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return wrapError("update user name", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapError("update user name", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *GormUserStorage) CreateToken(ctx context.Context, token *domain.AccessToken) error {
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return wrapError("create access token", err)
	}
	return nil
}

func (s *GormUserStorage) GetTokenByHash(ctx context.Context, hash string) (*domain.AccessToken, error) {
	var token domain.AccessToken
	if err := s.db.WithContext(ctx).Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, wrapError("get access token", err)
	}
	return &token, nil
}

func (s *GormUserStorage) TouchToken(ctx context.Context, id int64, usedAt time.Time) error {
	err := s.db.WithContext(ctx).Model(&domain.AccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt).Error
	if err != nil {
		return wrapError("touch access token", err)
	}
	return nil
}

func (s *GormUserStorage) DeleteToken(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&domain.AccessToken{}, id).Error; err != nil {
		return wrapError("delete access token", err)
	}
	return nil
}
