package users

import (
	"time"

	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PublicProfile is what other users may see about an account.
type PublicProfile struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
}

// CreateUserInput is the account creation payload shared by admin creation and registration.
type CreateUserInput struct {
	Name     string     `json:"name" validate:"required,min=2,max=60"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required"`
	Address  string     `json:"address" validate:"required,max=400"`
	Role     enums.Role `json:"role" validate:"required,role"`
}

// ListFilter narrows the admin user listing.
type ListFilter struct {
	Search string
	Role   string
}

// UpdateProfileInput carries the mutable profile fields; nil leaves a field unchanged.
type UpdateProfileInput struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=60"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=400"`
}

// AdminDashboard aggregates platform totals.
type AdminDashboard struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ProfileFromModel(u *models.User) *PublicProfile {
	if u == nil {
		return nil
	}
	return &PublicProfile{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
	}
}
