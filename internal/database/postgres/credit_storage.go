package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCreditStorage implements ports.CreditStorage. Every balance mutation
// runs in its own transaction holding a row lock on the user.
type GormCreditStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormCreditStorage(db *gorm.DB, logger *slog.Logger) *GormCreditStorage {
	return &GormCreditStorage{db: db, logger: logger}
}

// DeductCredits locks the user row with SELECT ... FOR UPDATE, so concurrent
// deductions for one account are serialized and see each other's writes.
func (s *GormCreditStorage) DeductCredits(ctx context.Context, userID int64, cost int) (bool, error) {
	start := time.Now()
	deducted := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "credits").
			First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		if user.Credits < cost {
			return nil
		}

		if err := tx.Model(&domain.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{
				"credits":           gorm.Expr("credits - ?", cost),
				"total_generations": gorm.Expr("total_generations + ?", 1),
			}).Error; err != nil {
			return err
		}

		deducted = true
		return nil
	})
	if err != nil {
		s.logger.Error("credit deduction failed", "user_id", userID, "cost", cost, "error", err)
		return false, wrapError("deduct credits", err)
	}

	s.logger.Info("credit deduction",
		"user_id", userID,
		"cost", cost,
		"deducted", deducted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return deducted, nil
}

func (s *GormCreditStorage) RefundCredits(ctx context.Context, userID int64, amount int) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", amount))
	if res.Error != nil {
		s.logger.Error("credit refund failed", "user_id", userID, "amount", amount, "error", res.Error)
		return wrapError("refund credits", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapError("refund credits", gorm.ErrRecordNotFound)
	}

	s.logger.Info("credits refunded", "user_id", userID, "amount", amount)
	return nil
}
