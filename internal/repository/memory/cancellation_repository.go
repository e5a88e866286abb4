package memory

import (
	"context"

	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type cancellationRepository struct {
	store *Store
}

func NewCancellationRepository(store *Store) contract.CancellationRepository {
	return &cancellationRepository{store: store}
}

// CreateIfAbsent relies on cache.Add, which fails when the key is taken.
func (r *cancellationRepository) CreateIfAbsent(ctx context.Context, cancellation *entity.Cancellation) (bool, error) {
	if cancellation.Id == uuid.Nil {
		cancellation.Id = uuid.New()
	}
	now := r.store.now()
	row := *cancellation
	row.CreatedAt = now
	row.UpdatedAt = now

	key := row.SubscriptionId.String()
	if err := r.store.cancellations.Add(key, row, cache.NoExpiration); err != nil {
		return false, nil
	}
	r.store.cancellationIds.Set(row.Id.String(), key, cache.NoExpiration)

	*cancellation = row
	return true, nil
}

func (r *cancellationRepository) FindBySubscriptionID(ctx context.Context, subscriptionId uuid.UUID) (*entity.Cancellation, error) {
	x, found := r.store.cancellations.Get(subscriptionId.String())
	if !found {
		return nil, nil
	}
	row := x.(entity.Cancellation)
	return &row, nil
}

func (r *cancellationRepository) Update(ctx context.Context, id uuid.UUID, patch entity.CancellationPatch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key, found := r.store.cancellationIds.Get(id.String())
	if !found {
		return nil
	}
	x, found := r.store.cancellations.Get(key.(string))
	if !found {
		return nil
	}

	row := x.(entity.Cancellation)
	if patch.Reason != nil {
		row.Reason = *patch.Reason
	}
	if patch.ReasonDetails != nil {
		row.ReasonDetails = *patch.ReasonDetails
	}
	if patch.AcceptedDownsell != nil {
		row.AcceptedDownsell = *patch.AcceptedDownsell
	}
	row.UpdatedAt = r.store.now()

	r.store.cancellations.Set(key.(string), row, cache.NoExpiration)
	return nil
}
