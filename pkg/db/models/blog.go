package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Blog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuthorID   uuid.UUID `gorm:"column:author_id;type:uuid;not null;index"`
	Title      string    `gorm:"column:title;not null"`
	Content    string    `gorm:"column:content;not null"`
	CoverImage *string   `gorm:"column:cover_image"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Author *User `gorm:"foreignKey:AuthorID"`
}

func (b *Blog) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
