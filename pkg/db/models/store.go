package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is a rateable business. AverageRating is a cache of the mean over its ratings.
type Store struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;uniqueIndex:stores_owner_id_key"`
	Name          string          `gorm:"column:name;not null"`
	Email         string          `gorm:"column:email;not null"`
	Address       string          `gorm:"column:address;not null;default:''"`
	AverageRating decimal.Decimal `gorm:"column:average_rating;type:numeric(3,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Owner *User `gorm:"foreignKey:OwnerID"`
}

func (s *Store) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
