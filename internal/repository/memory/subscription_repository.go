package memory

import (
	"context"
	"fmt"

	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type subscriptionRepository struct {
	store *Store
}

func NewSubscriptionRepository(store *Store) contract.SubscriptionRepository {
	return &subscriptionRepository{store: store}
}

func (r *subscriptionRepository) CreateSubscription(ctx context.Context, subscription *entity.Subscription) error {
	if subscription.Id == uuid.Nil {
		subscription.Id = uuid.New()
	}
	now := r.store.now()
	row := *subscription
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	if err := r.store.subscriptions.Add(row.Id.String(), row, cache.NoExpiration); err != nil {
		return fmt.Errorf("subscription %s already exists", row.Id)
	}
	*subscription = row
	return nil
}

func (r *subscriptionRepository) FindOneSubscription(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	x, found := r.store.subscriptions.Get(id.String())
	if !found {
		return nil, nil
	}
	row := x.(entity.Subscription)
	return &row, nil
}

func (r *subscriptionRepository) FindLatestByUserID(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	var latest *entity.Subscription
	for _, item := range r.store.subscriptions.Items() {
		row := item.Object.(entity.Subscription)
		if row.UserId != userId {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = &row
		}
	}
	return latest, nil
}

func (r *subscriptionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SubscriptionStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	x, found := r.store.subscriptions.Get(id.String())
	if !found {
		return false, nil
	}
	row := x.(entity.Subscription)
	if row.Status != from {
		return false, nil
	}
	row.Status = to
	row.UpdatedAt = r.store.now()
	r.store.subscriptions.Set(id.String(), row, cache.NoExpiration)
	return true, nil
}
