package domain

import "errors"

// Sentinel errors shared by every layer. Adapters wrap driver errors into
// these so handlers can branch with errors.Is.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrEmailTaken          = errors.New("email has already been taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrContentTypeMismatch = errors.New("content type mismatch")
)
