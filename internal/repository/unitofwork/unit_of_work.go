package unitofwork

import (
	"context"

	"cancel-flow-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SubscriptionRepository() contract.SubscriptionRepository
	CancellationRepository() contract.CancellationRepository
}
