// FILE: internal/repository/contract/cancellation_repository.go
package contract

import (
	"context"

	"cancel-flow-be/internal/entity"

	"github.com/google/uuid"
)

// CancellationRepository defines operations for cancellation flow rows
type CancellationRepository interface {
	// CreateIfAbsent inserts the row unless one already exists for its subscription.
	// created is false when another row won; the passed row is then not persisted.
	CreateIfAbsent(ctx context.Context, cancellation *entity.Cancellation) (created bool, err error)
	FindBySubscriptionID(ctx context.Context, subscriptionId uuid.UUID) (*entity.Cancellation, error)
	Update(ctx context.Context, id uuid.UUID, patch entity.CancellationPatch) error
}
