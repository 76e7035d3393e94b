package blogs

import (
	"time"

	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/google/uuid"
)

const (
	TitleMaxLength      = 200
	CoverImageMaxLength = 2048
)

// AuthorDTO is the author summary embedded in every blog.
type AuthorDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type BlogDTO struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CoverImage string     `json:"coverImage"`
	Author     *AuthorDTO `json:"author,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Page is one page of blogs plus the counters the client paginates with.
type Page struct {
	Blogs       []BlogDTO `json:"blogs"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	TotalBlogs  int64     `json:"totalBlogs"`
}

type CreateInput struct {
	Title      string  `json:"title" validate:"required,max=200"`
	Content    string  `json:"content" validate:"required"`
	CoverImage *string `json:"coverImage,omitempty" validate:"omitempty,max=2048"`
}

// UpdateInput changes only the fields that are present.
type UpdateInput struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content    *string `json:"content,omitempty"`
	CoverImage *string `json:"coverImage,omitempty" validate:"omitempty,max=2048"`
}

func FromModel(m *models.Blog) *BlogDTO {
	if m == nil {
		return nil
	}
	dto := &BlogDTO{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.CoverImage != nil {
		dto.CoverImage = *m.CoverImage
	}
	if m.Author != nil {
		dto.Author = &AuthorDTO{ID: m.Author.ID, Name: m.Author.Name, Email: m.Author.Email}
	}
	return dto
}
