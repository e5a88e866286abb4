package memory

import (
	"context"
	"fmt"

	"cancel-flow-be/internal/repository/contract"
	"cancel-flow-be/internal/repository/unitofwork"
)

type repositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork has no undo log: Rollback releases the lock but keeps writes.
// Begin/Commit only serialize units of work against each other.
type unitOfWork struct {
	store *Store
	inTx  bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.store.txMu.Lock()
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.inTx = false
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return NewSubscriptionRepository(u.store)
}

func (u *unitOfWork) CancellationRepository() contract.CancellationRepository {
	return NewCancellationRepository(u.store)
}
