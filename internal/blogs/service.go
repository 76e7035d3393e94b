package blogs

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service exposes blog publishing. Only the author may change or remove a post.
type Service interface {
	List(ctx context.Context, page pagination.Params) (*Page, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page pagination.Params) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*BlogDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, in CreateInput) (*BlogDTO, error)
	Update(ctx context.Context, actorID, id uuid.UUID, in UpdateInput) (*BlogDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	db *db.Client
}

func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	return &service{db: client}, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (*Page, error) {
	return s.list(ctx, nil, page)
}

func (s *service) ListByAuthor(ctx context.Context, authorID uuid.UUID, page pagination.Params) (*Page, error) {
	return s.list(ctx, &authorID, page)
}

func (s *service) list(ctx context.Context, authorID *uuid.UUID, page pagination.Params) (*Page, error) {
	page = pagination.Normalize(page.Page, page.Limit)
	rows, total, err := NewRepository(s.db.DB()).List(ctx, authorID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list blogs")
	}

	items := make([]BlogDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &Page{
		Blogs:       items,
		CurrentPage: page.Page,
		TotalPages:  pagination.TotalPages(total, page.Limit),
		TotalBlogs:  total,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BlogDTO, error) {
	blog, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load blog")
	}
	return FromModel(blog), nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, in CreateInput) (*BlogDTO, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and content are required")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	cover, err := normalizeCover(in.CoverImage)
	if err != nil {
		return nil, err
	}

	repo := NewRepository(s.db.DB())
	blog := &models.Blog{AuthorID: authorID, Title: title, Content: content, CoverImage: cover}
	if err := repo.Create(ctx, blog); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create blog")
	}
	return s.Get(ctx, blog.ID)
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, in UpdateInput) (*BlogDTO, error) {
	updates := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty").
				WithDetails(map[string]any{"field": "title"})
		}
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "content cannot be empty").
				WithDetails(map[string]any{"field": "content"})
		}
		updates["content"] = content
	}
	if in.CoverImage != nil {
		cover, err := normalizeCover(in.CoverImage)
		if err != nil {
			return nil, err
		}
		updates["cover_image"] = cover
	}

	if err := s.authorize(ctx, actorID, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := NewRepository(s.db.DB()).Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update blog")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.authorize(ctx, actorID, id); err != nil {
		return err
	}
	if err := NewRepository(s.db.DB()).Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete blog")
	}
	return nil
}

// authorize loads the blog and checks the actor wrote it.
func (s *service) authorize(ctx context.Context, actorID, id uuid.UUID) error {
	blog, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "blog not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load blog")
	}
	if blog.AuthorID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can modify this blog")
	}
	return nil
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(title) > TitleMaxLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("title must be at most %d characters", TitleMaxLength)).
			WithDetails(map[string]any{"field": "title"})
	}
	return nil
}

// normalizeCover trims the cover URL; blank becomes nil.
func normalizeCover(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	cover := strings.TrimSpace(*raw)
	if cover == "" {
		return nil, nil
	}
	if len(cover) > CoverImageMaxLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coverImage is too long").
			WithDetails(map[string]any{"field": "coverImage"})
	}
	return &cover, nil
}
