package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/ContentGenius/internal/database/memory"
	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditServiceDeductAndRefund(t *testing.T) {
	store := memory.New()
	user := seedUser(t, store, "ledger@example.com", 5)
	svc := NewCreditService(store, logger.Discard())

	ok, err := svc.Deduct(context.Background(), user, svc.Cost(domain.ContentTypeArticle))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Deduct(context.Background(), user, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Refund(context.Background(), user, 3))
	u, err := store.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, u.Credits)
	assert.Equal(t, 1, u.TotalGenerations)
}

func TestCreditServiceRejectsNonPositiveAmounts(t *testing.T) {
	store := memory.New()
	user := seedUser(t, store, "zero@example.com", 5)
	svc := NewCreditService(store, logger.Discard())

	_, err := svc.Deduct(context.Background(), user, 0)
	require.Error(t, err)
	require.Error(t, svc.Refund(context.Background(), user, -1))
}

func TestCreditServicePricing(t *testing.T) {
	svc := NewCreditService(memory.New(), logger.Discard())
	pricing := svc.Pricing()
	require.Len(t, pricing, 5)
	assert.Equal(t, 3, pricing[domain.ContentTypeArticle].Credits)
	assert.Equal(t, 1, pricing[domain.ContentTypeSummary].Credits)
	assert.True(t, svc.HasSufficientBalance(&domain.User{Credits: 2}, 2))
	assert.False(t, svc.HasSufficientBalance(&domain.User{Credits: 1}, 2))
}
