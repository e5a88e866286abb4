package contract

import (
	"context"

	"cancel-flow-be/internal/entity"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, subscription *entity.Subscription) error
	FindOneSubscription(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)
	// FindLatestByUserID returns the user's most recently created subscription, or nil.
	FindLatestByUserID(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error)
	// TransitionStatus moves status from -> to only if the row still holds from.
	// moved is false when the guard did not match; that is not an error.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SubscriptionStatus) (moved bool, err error)
}
