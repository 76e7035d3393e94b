package stores

import (
	"context"

	"github.com/angelmondragon/rateboard-backend/internal/users"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByOwner loads the single store owned by ownerID, with the owner preloaded.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// List returns stores whose name, email or address contains search, ordered by name.
func (r *Repository) List(ctx context.Context, search string) ([]models.Store, error) {
	query := r.db.WithContext(ctx).Preload("Owner")
	if pattern := users.LikePattern(search); pattern != "" {
		query = query.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}

	var rows []models.Store
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RatingCounts returns the number of ratings per store for the given ids.
// Stores without ratings are absent from the map.
func (r *Repository) RatingCounts(ctx context.Context, storeIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(storeIDs))
	if len(storeIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		StoreID uuid.UUID
		Total   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("store_id, COUNT(*) AS total").
		Where("store_id IN ?", storeIDs).
		Group("store_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.StoreID] = row.Total
	}
	return out, nil
}
