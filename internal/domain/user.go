package domain

import "time"

// User is an account holder, mapped to the users table.
// Credits change only through the credit ledger.
type User struct {
	ID               int64     `json:"id" gorm:"column:id;primaryKey" db:"id"`
	Name             string    `json:"name" gorm:"column:name" db:"name"`
	Email            string    `json:"email" gorm:"column:email;uniqueIndex" db:"email"`
	PasswordHash     string    `json:"-" gorm:"column:password_hash" db:"password_hash"`
	Credits          int       `json:"credits" gorm:"column:credits" db:"credits"`
	TotalGenerations int       `json:"total_generations" gorm:"column:total_generations" db:"total_generations"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"column:updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasSufficientBalance reports whether this snapshot of the user can pay cost.
func (u *User) HasSufficientBalance(cost int) bool {
	return u.Credits >= cost
}

// AccessToken is a revocable bearer credential. Only the SHA-256 hash of the
// plaintext token is stored.
type AccessToken struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	UserID     int64      `gorm:"column:user_id"`
	Name       string     `gorm:"column:name"`
	TokenHash  string     `gorm:"column:token_hash;uniqueIndex"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (AccessToken) TableName() string {
	return "access_tokens"
}

func (t *AccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
