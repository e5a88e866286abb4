package implementation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/repository/implementation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var subscriptionColumns = []string{"id", "user_id", "monthly_price", "status", "created_at", "updated_at"}

func TestSubscriptionRepository_FindLatestByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewSubscriptionRepository(db)

	id, userId := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id = \$1 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns).
			AddRow(id.String(), userId.String(), 2500, "active", now, now))

	sub, err := repo.FindLatestByUserID(context.Background(), userId)

	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, id, sub.Id)
	assert.Equal(t, 2500, sub.MonthlyPrice)
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_FindLatestByUserID_None(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewSubscriptionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns))

	sub, err := repo.FindLatestByUserID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestSubscriptionRepository_FindOneSubscription_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewSubscriptionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1`).
		WillReturnError(errors.New("connection reset"))

	sub, err := repo.FindOneSubscription(context.Background(), uuid.New())

	assert.Error(t, err)
	assert.Nil(t, sub)
}

func TestSubscriptionRepository_TransitionStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		moved    bool
	}{
		{name: "guard matched", affected: 1, moved: true},
		{name: "guard missed", affected: 0, moved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := implementation.NewSubscriptionRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE "subscriptions" SET "status"=\$1.* WHERE id = \$\d+ AND status = \$\d+`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			moved, err := repo.TransitionStatus(context.Background(), uuid.New(),
				entity.SubscriptionStatusActive, entity.SubscriptionStatusPendingCancellation)

			require.NoError(t, err)
			assert.Equal(t, tt.moved, moved)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSubscriptionRepository_CreateSubscription(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewSubscriptionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "subscriptions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sub := &entity.Subscription{
		UserId:       uuid.New(),
		MonthlyPrice: 2500,
		Status:       entity.SubscriptionStatusActive,
	}
	require.NoError(t, repo.CreateSubscription(context.Background(), sub))
	assert.NotEqual(t, uuid.Nil, sub.Id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
