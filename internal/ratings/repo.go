package ratings

import (
	"context"
	"time"

	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles rating persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to rating operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LockStore loads the store row with FOR UPDATE so concurrent raters of the
// same store serialise on it until the surrounding transaction ends.
func (r *Repository) LockStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&store, "id = ?", storeID).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByUserStore returns the rating a user gave a store.
func (r *Repository) FindByUserStore(ctx context.Context, userID, storeID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// Upsert writes value for (userID, storeID), overwriting any previous value.
func (r *Repository) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int) error {
	row := &models.Rating{UserID: userID, StoreID: storeID, Rating: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(row).Error
}

// Aggregate sums and counts the ratings of a store.
func (r *Repository) Aggregate(ctx context.Context, storeID uuid.UUID) (sum, count int64, err error) {
	err = r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(SUM(rating), 0), COUNT(*)").
		Where("store_id = ?", storeID).
		Row().
		Scan(&sum, &count)
	return sum, count, err
}

// SetStoreAverage persists the cached average on the store row.
func (r *Repository) SetStoreAverage(ctx context.Context, storeID uuid.UUID, avg decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", storeID).
		Updates(map[string]any{"average_rating": avg, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForStore returns a store's ratings with the rater preloaded, newest first.
func (r *Repository) ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.Rating, error) {
	var rows []models.Rating
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("store_id = ?", storeID).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
