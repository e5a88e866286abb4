package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSubscription(t *testing.T, store *memory.Store, userId uuid.UUID, createdAt time.Time) *entity.Subscription {
	t.Helper()
	sub := &entity.Subscription{
		UserId:       userId,
		MonthlyPrice: 2500,
		Status:       entity.SubscriptionStatusActive,
		CreatedAt:    createdAt,
	}
	require.NoError(t, memory.NewSubscriptionRepository(store).CreateSubscription(context.Background(), sub))
	return sub
}

func TestSubscriptionRepository_FindLatestByUserID(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewSubscriptionRepository(store)
	userId := uuid.New()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seedSubscription(t, store, userId, base)
	latest := seedSubscription(t, store, userId, base.Add(time.Hour))
	seedSubscription(t, store, uuid.New(), base.Add(2*time.Hour))

	got, err := repo.FindLatestByUserID(context.Background(), userId)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, latest.Id, got.Id)

	none, err := repo.FindLatestByUserID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSubscriptionRepository_CreateDuplicate(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewSubscriptionRepository(store)
	sub := seedSubscription(t, store, uuid.New(), time.Time{})

	err := repo.CreateSubscription(context.Background(), &entity.Subscription{Id: sub.Id})
	assert.Error(t, err)
	assert.False(t, sub.CreatedAt.IsZero())
}

func TestSubscriptionRepository_TransitionStatus(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewSubscriptionRepository(store)
	sub := seedSubscription(t, store, uuid.New(), time.Time{})
	ctx := context.Background()

	moved, err := repo.TransitionStatus(ctx, sub.Id, entity.SubscriptionStatusActive, entity.SubscriptionStatusPendingCancellation)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.TransitionStatus(ctx, sub.Id, entity.SubscriptionStatusActive, entity.SubscriptionStatusCancelled)
	require.NoError(t, err)
	assert.False(t, moved)

	got, err := repo.FindOneSubscription(ctx, sub.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusPendingCancellation, got.Status)

	moved, err = repo.TransitionStatus(ctx, uuid.New(), entity.SubscriptionStatusActive, entity.SubscriptionStatusCancelled)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestSubscriptionRepository_TransitionStatus_Concurrent(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewSubscriptionRepository(store)
	sub := seedSubscription(t, store, uuid.New(), time.Time{})

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			moved, err := repo.TransitionStatus(context.Background(), sub.Id,
				entity.SubscriptionStatusActive, entity.SubscriptionStatusPendingCancellation)
			if err == nil && moved {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestCancellationRepository_CreateIfAbsent(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewCancellationRepository(store)
	ctx := context.Background()
	subId := uuid.New()

	first := &entity.Cancellation{SubscriptionId: subId, UserId: uuid.New(), DownsellVariant: entity.DownsellVariantA}
	created, err := repo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, first.Id)
	assert.False(t, first.CreatedAt.IsZero())

	second := &entity.Cancellation{SubscriptionId: subId, UserId: first.UserId, DownsellVariant: entity.DownsellVariantB}
	created, err = repo.CreateIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.FindBySubscriptionID(ctx, subId)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.Id, got.Id)
	assert.Equal(t, entity.DownsellVariantA, got.DownsellVariant)
}

func TestCancellationRepository_Update(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewCancellationRepository(store)
	ctx := context.Background()

	row := &entity.Cancellation{SubscriptionId: uuid.New(), UserId: uuid.New(), DownsellVariant: entity.DownsellVariantB}
	_, err := repo.CreateIfAbsent(ctx, row)
	require.NoError(t, err)

	reason := entity.CancellationReasonTooExpensive
	details := "usage_details: 12"
	require.NoError(t, repo.Update(ctx, row.Id, entity.CancellationPatch{Reason: &reason, ReasonDetails: &details}))

	accepted := true
	require.NoError(t, repo.Update(ctx, row.Id, entity.CancellationPatch{AcceptedDownsell: &accepted}))

	got, err := repo.FindBySubscriptionID(ctx, row.SubscriptionId)
	require.NoError(t, err)
	assert.Equal(t, reason, got.Reason)
	assert.Equal(t, details, got.ReasonDetails)
	assert.True(t, got.AcceptedDownsell)
	assert.Equal(t, entity.DownsellVariantB, got.DownsellVariant)

	assert.NoError(t, repo.Update(ctx, uuid.New(), entity.CancellationPatch{AcceptedDownsell: &accepted}))
}

func TestUnitOfWork_BeginCommit(t *testing.T) {
	factory := memory.NewRepositoryFactory(memory.NewStore())
	ctx := context.Background()

	uow := factory.NewUnitOfWork(ctx)
	assert.Error(t, uow.Commit())
	assert.Error(t, uow.Rollback())

	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx))
	require.NoError(t, uow.Commit())

	// The lock was released, so a second unit of work can start.
	other := factory.NewUnitOfWork(ctx)
	require.NoError(t, other.Begin(ctx))
	require.NoError(t, other.Rollback())
}
