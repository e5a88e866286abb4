// FILE: internal/repository/implementation/cancellation_repository_impl.go
package implementation

import (
	"context"
	"errors"

	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/mapper"
	"cancel-flow-be/internal/model"
	"cancel-flow-be/internal/repository/contract"
	"cancel-flow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cancellationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CancellationMapper
}

// NewCancellationRepository creates a new cancellation repository
func NewCancellationRepository(db *gorm.DB) contract.CancellationRepository {
	return &cancellationRepositoryImpl{
		db:     db,
		mapper: mapper.NewCancellationMapper(),
	}
}

func (r *cancellationRepositoryImpl) CreateIfAbsent(ctx context.Context, cancellation *entity.Cancellation) (bool, error) {
	if cancellation.Id == uuid.Nil {
		cancellation.Id = uuid.New()
	}
	m := r.mapper.ToModel(cancellation)

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscription_id"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	*cancellation = *r.mapper.ToEntity(m)
	return true, nil
}

func (r *cancellationRepositoryImpl) FindBySubscriptionID(ctx context.Context, subscriptionId uuid.UUID) (*entity.Cancellation, error) {
	var m model.Cancellation
	query := specification.BySubscriptionID{SubscriptionID: subscriptionId}.Apply(r.db.WithContext(ctx))

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *cancellationRepositoryImpl) Update(ctx context.Context, id uuid.UUID, patch entity.CancellationPatch) error {
	cols := r.mapper.PatchToColumns(patch)
	if len(cols) == 0 {
		return nil
	}
	return specification.ByID{ID: id}.
		Apply(r.db.WithContext(ctx).Model(&model.Cancellation{})).
		Updates(cols).Error
}
