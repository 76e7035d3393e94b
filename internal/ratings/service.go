package ratings

import (
	"context"
	"fmt"

	"github.com/angelmondragon/rateboard-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/rateboard-backend/pkg/errors"
	"github.com/angelmondragon/rateboard-backend/pkg/logger"
	"github.com/angelmondragon/rateboard-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes rating submission and lookup.
type Service interface {
	SubmitOrUpdate(ctx context.Context, userID, storeID uuid.UUID, value int) (*SubmitResult, error)
	GetUserRating(ctx context.Context, userID, storeID uuid.UUID) (*RatingDTO, error)
}

// ServiceParams bundles the dependencies required to build a ratings service.
type ServiceParams struct {
	DB      *db.Client
	Metrics *metrics.RatingMetrics
	Logger  *logger.Logger
}

type service struct {
	db      *db.Client
	metrics *metrics.RatingMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{db: params.DB, metrics: params.Metrics, logg: logg}, nil
}

// SubmitOrUpdate stores the caller's rating for a store and refreshes the
// store's cached average within the same transaction.
func (s *service) SubmitOrUpdate(ctx context.Context, userID, storeID uuid.UUID, value int) (*SubmitResult, error) {
	if value < MinValue || value > MaxValue {
		s.metrics.IncSubmitted(metrics.RatingOutcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rating must be between %d and %d", MinValue, MaxValue)).
			WithDetails(map[string]any{"field": "rating"})
	}
	if storeID == uuid.Nil {
		s.metrics.IncSubmitted(metrics.RatingOutcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storeId is required").
			WithDetails(map[string]any{"field": "storeId"})
	}

	var (
		result  SubmitResult
		outcome = metrics.RatingOutcomeUpdated
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if _, err := repo.LockStore(ctx, storeID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock store")
		}

		if _, err := repo.FindByUserStore(ctx, userID, storeID); err != nil {
			if !db.IsNotFound(err) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load existing rating")
			}
			outcome = metrics.RatingOutcomeCreated
		}

		if err := repo.Upsert(ctx, userID, storeID, value); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert rating")
		}

		stored, err := repo.FindByUserStore(ctx, userID, storeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload rating")
		}

		agg, err := RecomputeAverage(ctx, tx, storeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute average")
		}

		result = SubmitResult{
			UserRating:    *FromModel(stored),
			AverageRating: FormatAverage(agg.Average),
			RatingCount:   agg.Count,
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeInternal {
			s.metrics.IncSubmitted(metrics.RatingOutcomeRejected)
		} else {
			s.metrics.IncSubmitted(metrics.RatingOutcomeFailed)
		}
		return nil, err
	}

	s.metrics.IncSubmitted(outcome)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"store_id":       storeID.String(),
		"rating":         value,
		"outcome":        outcome,
		"average_rating": result.AverageRating,
	})
	s.logg.Info(ctx, "rating.submitted")
	return &result, nil
}

// GetUserRating returns the caller's rating for a store, or nil when none exists.
func (s *service) GetUserRating(ctx context.Context, userID, storeID uuid.UUID) (*RatingDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storeId is required").
			WithDetails(map[string]any{"field": "storeId"})
	}
	rating, err := NewRepository(s.db.DB()).FindByUserStore(ctx, userID, storeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rating")
	}
	return FromModel(rating), nil
}

// RecomputeAverage is the single place a store's cached average is derived.
// It reads the ratings visible to tx, rounds the mean half away from zero to
// two decimals (0 for an empty set) and writes it to the store row.
func RecomputeAverage(ctx context.Context, tx *gorm.DB, storeID uuid.UUID) (Aggregate, error) {
	repo := NewRepository(tx)
	sum, count, err := repo.Aggregate(ctx, storeID)
	if err != nil {
		return Aggregate{}, err
	}
	agg := Aggregate{Average: Mean(sum, count), Count: count}
	if err := repo.SetStoreAverage(ctx, storeID, agg.Average); err != nil {
		return Aggregate{}, err
	}
	return agg, nil
}

// Mean divides sum by count exactly and rounds to two decimals.
func Mean(sum, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 2)
}
