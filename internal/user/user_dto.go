package user

import "time"

// UserResponse is the public representation of an account. The password
// hash is never part of it.
type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	IsStaff   bool   `json:"is_staff"`
	CreatedAt string `json:"created_at"`
}

func MapToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Name:      u.Name(),
		IsActive:  u.IsActive,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
