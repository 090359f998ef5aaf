package dto

import (
	"time"

	"github.com/SscSPs/baki_khata/internal/core/domain"
)

// RegisterRequest defines the data needed to create an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
}

// LoginRequest holds login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// AccountDeletionResponse reports what an account deletion removed.
type AccountDeletionResponse struct {
	TransactionsDeleted int    `json:"transactionsDeleted"`
	AccountDeleted      bool   `json:"accountDeleted"`
	Warning             string `json:"warning,omitempty"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ToUserResponse converts a domain.User, leaving out the password hash.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Name:     user.Name,
	}
}
