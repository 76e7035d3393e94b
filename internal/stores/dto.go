package stores

import (
	"time"

	"github.com/angelmondragon/rateboard-backend/internal/ratings"
	"github.com/angelmondragon/rateboard-backend/internal/users"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/google/uuid"
)

// StoreDTO exposes a store with its cached aggregate and owner profile.
type StoreDTO struct {
	ID            uuid.UUID            `json:"id"`
	OwnerID       uuid.UUID            `json:"ownerId"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Address       string               `json:"address"`
	AverageRating string               `json:"averageRating"`
	RatingCount   int64                `json:"ratingCount"`
	Owner         *users.PublicProfile `json:"owner,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// CreateStoreInput is the admin payload; the email and password become the owner's login.
type CreateStoreInput struct {
	Name     string `json:"name" validate:"required,min=2,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"required,max=400"`
	Password string `json:"password" validate:"required"`
}

// StoreRatingDTO is one rating as shown to the store owner.
type StoreRatingDTO struct {
	ID        uuid.UUID            `json:"id"`
	Rating    int                  `json:"rating"`
	User      *users.PublicProfile `json:"user"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// OwnerDashboard is the owner's view of their store.
type OwnerDashboard struct {
	Store         StoreDTO         `json:"store"`
	Ratings       []StoreRatingDTO `json:"ratings"`
	AverageRating string           `json:"averageRating"`
}

// FromModel maps the persisted store into a DTO; ratingCount is supplied by the caller.
func FromModel(m *models.Store, ratingCount int64) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Name:          m.Name,
		Email:         m.Email,
		Address:       m.Address,
		AverageRating: ratings.FormatAverage(m.AverageRating),
		RatingCount:   ratingCount,
		Owner:         users.ProfileFromModel(m.Owner),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ratingFromModel(m *models.Rating) StoreRatingDTO {
	return StoreRatingDTO{
		ID:        m.ID,
		Rating:    m.Rating,
		User:      users.ProfileFromModel(m.User),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
