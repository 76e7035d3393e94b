package auth

import "github.com/angelmondragon/rateboard-backend/internal/users"

// RegisterRequest is the self-registration payload. Role defaults to user.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address" validate:"required,max=400"`
	Role     string `json:"role,omitempty" validate:"omitempty,role"`
}

// LoginRequest captures the credentials sent to the login endpoint. When Role
// is set the account must hold exactly that role.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty"`
}

// AuthResponse carries the bearer token and the authenticated user.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// UserResponse wraps a single user for the /auth/me endpoints.
type UserResponse struct {
	User *users.UserDTO `json:"user"`
}
