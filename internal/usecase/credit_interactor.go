package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ContentGenius/internal/core/ports"
	"github.com/GoArmGo/ContentGenius/internal/domain"
)

// CreditService is the credit ledger: the only path that changes a balance.
type CreditService struct {
	credits ports.CreditStorage
	logger  *slog.Logger
}

func NewCreditService(credits ports.CreditStorage, logger *slog.Logger) *CreditService {
	return &CreditService{credits: credits, logger: logger}
}

// Cost is the fixed price of one request of type t.
func (s *CreditService) Cost(t domain.ContentType) int {
	return t.CreditCost()
}

// Pricing is the public price table.
func (s *CreditService) Pricing() map[domain.ContentType]domain.PriceEntry {
	return domain.Pricing()
}

// HasSufficientBalance checks the caller's snapshot of user. It is a fast
// pre-check only; Deduct re-reads the balance under a lock.
func (s *CreditService) HasSufficientBalance(user *domain.User, cost int) bool {
	return user.HasSufficientBalance(cost)
}

// Deduct charges cost to user. It reports false, with nothing changed,
// when the stored balance is insufficient at the time of the charge.
func (s *CreditService) Deduct(ctx context.Context, user *domain.User, cost int) (bool, error) {
	if cost <= 0 {
		return false, fmt.Errorf("usecase: deduct: cost must be positive, got %d", cost)
	}
	ok, err := s.credits.DeductCredits(ctx, user.ID, cost)
	if err != nil {
		return false, fmt.Errorf("usecase: deduct credits for user %d: %w", user.ID, err)
	}
	return ok, nil
}

// Refund returns amount to user's balance unconditionally.
func (s *CreditService) Refund(ctx context.Context, user *domain.User, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("usecase: refund: amount must be positive, got %d", amount)
	}
	if err := s.credits.RefundCredits(ctx, user.ID, amount); err != nil {
		return fmt.Errorf("usecase: refund credits for user %d: %w", user.ID, err)
	}
	s.logger.Info("credits refunded", "user_id", user.ID, "amount", amount)
	return nil
}
