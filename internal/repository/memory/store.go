package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store keeps subscriptions and cancellations in process. It backs the "memory"
// database driver and the HTTP tests. Rows never expire.
type Store struct {
	subscriptions   *cache.Cache // subscription id -> entity.Subscription
	cancellations   *cache.Cache // subscription id -> entity.Cancellation
	cancellationIds *cache.Cache // cancellation id -> subscription id

	// mu serializes read-modify-write on a stored row.
	mu sync.Mutex
	// txMu is held by a unit of work between Begin and Commit/Rollback.
	txMu sync.Mutex

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		subscriptions:   cache.New(cache.NoExpiration, 0),
		cancellations:   cache.New(cache.NoExpiration, 0),
		cancellationIds: cache.New(cache.NoExpiration, 0),
		now:             time.Now,
	}
}
