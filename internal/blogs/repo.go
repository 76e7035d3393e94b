package blogs

import (
	"context"

	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/angelmondragon/rateboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles blog persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

// FindByID loads a blog with its author.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).Preload("Author").First(&blog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// List returns one page of blogs, newest first, optionally restricted to an
// author, together with the total number of matching rows.
func (r *Repository) List(ctx context.Context, authorID *uuid.UUID, page pagination.Params) ([]models.Blog, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Blog{})
	if authorID != nil {
		base = base.Where("author_id = ?", *authorID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Blog
	if err := base.Session(&gorm.Session{}).
		Preload("Author").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Blog{}, "id = ?", id).Error
}
