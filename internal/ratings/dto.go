package ratings

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinValue = 1
	MaxValue = 5
)

// RatingDTO is the transport shape of a single user's rating.
type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	StoreID   uuid.UUID `json:"storeId"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubmitInput is the POST /ratings payload. The value range is enforced by the service.
type SubmitInput struct {
	StoreID string      `json:"storeId" validate:"required,uuid"`
	Rating  json.Number `json:"rating"`
}

// Value returns the rating as an int. Integral numbers written with a
// fraction or exponent, such as 4.0, are accepted.
func (in SubmitInput) Value() (int, error) {
	invalid := pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rating must be an integer between %d and %d", MinValue, MaxValue)).
		WithDetails(map[string]any{"field": "rating"})
	if in.Rating == "" {
		return 0, invalid
	}
	if n, err := in.Rating.Int64(); err == nil {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, invalid
		}
		return int(n), nil
	}
	f, err := in.Rating.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, invalid
	}
	return int(f), nil
}

// SubmitResult reports the caller's stored rating and the store aggregate after the write.
type SubmitResult struct {
	UserRating    RatingDTO `json:"userRating"`
	AverageRating string    `json:"averageRating"`
	RatingCount   int64     `json:"ratingCount"`
}

// Aggregate is the mean and size of a store's rating set.
type Aggregate struct {
	Average decimal.Decimal
	Count   int64
}

// FormatAverage renders an average with exactly two decimals, e.g. "3.50".
func FormatAverage(avg decimal.Decimal) string {
	return avg.StringFixed(2)
}

func FromModel(m *models.Rating) *RatingDTO {
	if m == nil {
		return nil
	}
	return &RatingDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		StoreID:   m.StoreID,
		Rating:    m.Rating,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
