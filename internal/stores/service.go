package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/rateboard-backend/internal/ratings"
	"github.com/angelmondragon/rateboard-backend/internal/users"
	"github.com/angelmondragon/rateboard-backend/pkg/db"
	"github.com/angelmondragon/rateboard-backend/pkg/db/models"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes store creation, listing and the owner dashboard.
type Service interface {
	Create(ctx context.Context, in CreateStoreInput) (*StoreDTO, error)
	List(ctx context.Context, search string) ([]StoreDTO, error)
	OwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*OwnerDashboard, error)
}

// ServiceParams bundles the dependencies required to build a stores service.
type ServiceParams struct {
	DB    *db.Client
	Users users.Service
}

type service struct {
	db    *db.Client
	users users.Service
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users service required")
	}
	return &service{db: params.DB, users: params.Users}, nil
}

// ProvisionOwnerStore creates the store for a newly inserted owner using the
// owner's name, email and address. It runs inside the caller's transaction.
func ProvisionOwnerStore(ctx context.Context, tx *gorm.DB, owner *models.User) error {
	if owner == nil || owner.ID == uuid.Nil {
		return fmt.Errorf("owner is required")
	}
	store := &models.Store{
		OwnerID: owner.ID,
		Name:    owner.Name,
		Email:   owner.Email,
		Address: owner.Address,
	}
	if err := NewRepository(tx).Create(ctx, store); err != nil {
		if db.IsUniqueViolation(err, "stores_owner_id_key") || db.IsUniqueViolation(err, "stores.owner_id") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "owner already has a store")
		}
		return err
	}
	return nil
}

// Create registers a store together with the owner account that logs in with
// the given email and password.
func (s *service) Create(ctx context.Context, in CreateStoreInput) (*StoreDTO, error) {
	if strings.TrimSpace(in.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required").
			WithDetails(map[string]any{"field": "address"})
	}
	if err := users.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	owner, err := s.users.Create(ctx, users.CreateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Address:  in.Address,
		Role:     enums.RoleOwner,
	})
	if err != nil {
		return nil, err
	}

	store, err := NewRepository(s.db.DB()).FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load created store")
	}
	return FromModel(store, 0), nil
}

func (s *service) List(ctx context.Context, search string) ([]StoreDTO, error) {
	repo := NewRepository(s.db.DB())
	rows, err := repo.List(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stores")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	counts, err := repo.RatingCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count store ratings")
	}

	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], counts[rows[i].ID]))
	}
	return out, nil
}

// OwnerDashboard returns the caller's store with every rating and the rater's
// public profile. The average is the value cached by the last recompute.
func (s *service) OwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*OwnerDashboard, error) {
	store, err := NewRepository(s.db.DB()).FindByOwner(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load owner store")
	}

	rows, err := ratings.NewRepository(s.db.DB()).ListForStore(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list store ratings")
	}

	items := make([]StoreRatingDTO, 0, len(rows))
	for i := range rows {
		items = append(items, ratingFromModel(&rows[i]))
	}

	dto := FromModel(store, int64(len(rows)))
	return &OwnerDashboard{
		Store:         *dto,
		Ratings:       items,
		AverageRating: dto.AverageRating,
	}, nil
}
