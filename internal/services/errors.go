package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrGitHubNotConfigured = errors.New("GitHub token or username not configured")
	ErrUpstream            = errors.New("failed to fetch from GitHub")
	ErrInvalidResetToken   = errors.New("Invalid or expired reset token")
	ErrPasswordTooShort    = errors.New("Password must be at least 8 characters long")
	ErrEmailRequired       = errors.New("Email is required")
	ErrResetFieldsRequired = errors.New("Token, email, and password are required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyReacted      = errors.New("already reacted")
	ErrSlugTaken           = errors.New("slug already exists")
	ErrInvalidUpload       = errors.New("invalid upload")
)

// RateLimitError: лимит исчерпан, повторить можно после ResetAt.
type RateLimitError struct {
	Scope   string // email | ip | reset | login
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (%s), retry after %s", e.Scope, e.ResetAt.UTC().Format(time.RFC3339))
}

// Message: текст для клиента.
func (e *RateLimitError) Message() string {
	switch e.Scope {
	case "email":
		return "Too many reset requests for this email. Please wait before trying again."
	case "ip":
		return "Too many requests from this IP. Please wait before trying again."
	case "reset":
		return "Too many reset attempts. Please wait before trying again."
	default:
		return "Too many attempts. Please try again later."
	}
}
