package dto

import (
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
)

// RegisterUserRequest defines the data needed to create a new user account.
type RegisterUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,msisdn"`
}

// LoginRequest defines the credentials for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued tokens.
type LoginResponse struct {
	Token            string    `json:"token"`
	TokenExpiresAt   time.Time `json:"tokenExpiresAt"`
	RefreshToken     string    `json:"refreshToken,omitempty"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt,omitempty"`
}

// RefreshTokenRequest asks for a new access token. The refresh token may be
// omitted when the refresh cookie is present.
type RefreshTokenRequest struct {
	UserID       string `json:"userID" binding:"required"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID       string    `json:"userID"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	AuthProvider string    `json:"authProvider"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		UserID:       u.UserID,
		Email:        u.Email,
		Name:         u.Name,
		IsAdmin:      u.IsAdmin,
		AuthProvider: u.AuthProvider,
		CreatedAt:    u.CreatedAt,
	}
	if !u.PhoneNumber.IsZero() {
		resp.PhoneNumber = u.PhoneNumber.International()
	}
	return resp
}
