package postgres

import (
	"errors"
	"fmt"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// wrapError translates driver errors into domain sentinels and adds context.
func wrapError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("storage: %s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("storage: %s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
