package models

import "time"

const (
	RoleAdmin = "admin"

	ProviderCredentials = "credentials"
)

type User struct {
	ID               int64      `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     *string    `json:"-"`
	Name             string     `json:"name"`
	Image            string     `json:"image"`
	Provider         string     `json:"provider"`
	ProviderID       string     `json:"-"`
	Role             string     `json:"role"`
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasPassword: false у аккаунтов, созданных только через OAuth.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

type UserProfileResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string              `json:"access_token"`
	ExpiresAt   time.Time           `json:"expires_at"`
	User        UserProfileResponse `json:"user"`
}
