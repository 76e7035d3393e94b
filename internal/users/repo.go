package users

import (
	"context"
	"strings"

	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user; the model is updated in place with its id and timestamps.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail retrieves the user matching the provided (already normalised) email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users matching a case-insensitive substring on name, email or
// address, optionally restricted to one role, newest first.
func (r *Repository) List(ctx context.Context, search string, role enums.Role) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if pattern := LikePattern(search); pattern != "" {
		query = query.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var rows []models.User
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateProfile writes the provided columns and returns the refreshed row.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.User, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Totals counts users, stores and ratings for the admin dashboard.
func (r *Repository) Totals(ctx context.Context) (AdminDashboard, error) {
	var out AdminDashboard
	conn := r.db.WithContext(ctx)
	if err := conn.Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return out, err
	}
	if err := conn.Model(&models.Store{}).Count(&out.TotalStores).Error; err != nil {
		return out, err
	}
	if err := conn.Model(&models.Rating{}).Count(&out.TotalRatings).Error; err != nil {
		return out, err
	}
	return out, nil
}

// NormalizeEmail lower-cases and trims an email so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern builds a lower-cased "%term%" pattern with LIKE wildcards escaped.
// An empty or blank term yields "".
func LikePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(term) + "%"
}
