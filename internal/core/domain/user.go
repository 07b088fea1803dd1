package domain

import "time"

// User represents an account holder in the domain.
type User struct {
	UserID       string      `json:"userID"` // Primary Key (e.g., UUID)
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PhoneNumber  PhoneNumber `json:"-"`
	PasswordHash string      `json:"-"` // Never expose in JSON responses
	IsAdmin      bool        `json:"isAdmin"`

	// Refresh token state; hash only, the raw token is never stored.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	// AuthProvider records how the user signs in ("local" or "google").
	AuthProvider string `json:"authProvider"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo is the subset of Google's userinfo payload the backend consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
