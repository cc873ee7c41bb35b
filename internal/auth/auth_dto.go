package auth

import (
	"go-staff/internal/token"
	"go-staff/internal/user"
)

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,max=128"`
	FirstName string `json:"first_name" binding:"required,max=20"`
	LastName  string `json:"last_name" binding:"required,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is shared by logout and token refresh. The field is
// checked by the service so a missing token gets its own message.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type AuthResponse struct {
	Tokens token.Pair        `json:"tokens"`
	User   user.UserResponse `json:"user"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
