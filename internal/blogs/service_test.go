package blogs

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/db/dbtest"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(client)
	require.NoError(t, err)
	return svc, client
}

func seedAuthor(t *testing.T, client *db.Client, email string) models.User {
	t.Helper()
	u := models.User{Name: "Author " + email, Email: email, PasswordHash: "x", Role: enums.RoleUser}
	require.NoError(t, client.DB().Create(&u).Error)
	return u
}

func strPtr(s string) *string { return &s }

func TestNewServiceRequiresDB(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestCreateAndGet(t *testing.T) {
	svc, client := setup(t)
	author := seedAuthor(t, client, "writer@example.com")

	created, err := svc.Create(context.Background(), author.ID, CreateInput{
		Title: "  First post ", Content: "Hello", CoverImage: strPtr("https://img.example.com/a.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "First post", created.Title)
	assert.Equal(t, "https://img.example.com/a.png", created.CoverImage)
	require.NotNil(t, created.Author)
	assert.Equal(t, author.ID, created.Author.ID)
	assert.Equal(t, "writer@example.com", created.Author.Email)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestCreateRequiresTitleAndContent(t *testing.T) {
	svc, client := setup(t)
	author := seedAuthor(t, client, "writer@example.com")

	for _, in := range []CreateInput{{Title: "", Content: "x"}, {Title: "x", Content: "   "}} {
		_, err := svc.Create(context.Background(), author.ID, in)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	}
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, client := setup(t)
	ctx := context.Background()
	alice := seedAuthor(t, client, "alice@example.com")
	bob := seedAuthor(t, client, "bob@example.com")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		author := alice
		if i%2 == 1 {
			author = bob
		}
		blog := models.Blog{AuthorID: author.ID, Title: "Post", Content: "Body", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, client.DB().Create(&blog).Error)
	}

	page, err := svc.List(ctx, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.TotalBlogs)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Blogs, 2)
	assert.True(t, page.Blogs[0].CreatedAt.After(page.Blogs[1].CreatedAt))
	require.NotNil(t, page.Blogs[0].Author)

	last, err := svc.List(ctx, pagination.Params{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, last.Blogs, 1)

	defaults, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, defaults.Blogs, 5)
	assert.Equal(t, 1, defaults.TotalPages)

	mine, err := svc.ListByAuthor(ctx, bob.ID, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.TotalBlogs)
	for _, b := range mine.Blogs {
		assert.Equal(t, bob.ID, b.Author.ID)
	}
}

func TestUpdateAndDeleteAreAuthorOnly(t *testing.T) {
	svc, client := setup(t)
	ctx := context.Background()
	author := seedAuthor(t, client, "author@example.com")
	other := seedAuthor(t, client, "other@example.com")

	blog, err := svc.Create(ctx, author.ID, CreateInput{Title: "Original", Content: "Body", CoverImage: strPtr("cover.png")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, blog.ID, UpdateInput{Title: strPtr("Hijacked")})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
	assert.True(t, pkgerrors.HasCode(svc.Delete(ctx, other.ID, blog.ID), pkgerrors.CodeForbidden))

	updated, err := svc.Update(ctx, author.ID, blog.ID, UpdateInput{Title: strPtr("Edited"), CoverImage: strPtr(" ")})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	assert.Equal(t, "Body", updated.Content)
	assert.Empty(t, updated.CoverImage)

	_, err = svc.Update(ctx, author.ID, blog.ID, UpdateInput{Content: strPtr("")})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Update(ctx, author.ID, uuid.New(), UpdateInput{Title: strPtr("x")})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, author.ID, blog.ID))
	_, err = svc.Get(ctx, blog.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.HasCode(svc.Delete(ctx, author.ID, blog.ID), pkgerrors.CodeNotFound))
}
