package implementation_test

import (
	"context"
	"testing"
	"time"

	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/repository/implementation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cancellationColumns = []string{
	"id", "user_id", "subscription_id", "downsell_variant", "reason",
	"reason_details", "accepted_downsell", "created_at", "updated_at",
}

func TestCancellationRepository_CreateIfAbsent_Inserted(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewCancellationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "cancellations" .+ ON CONFLICT \("subscription_id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := &entity.Cancellation{
		UserId:          uuid.New(),
		SubscriptionId:  uuid.New(),
		DownsellVariant: entity.DownsellVariantB,
	}
	created, err := repo.CreateIfAbsent(context.Background(), c)

	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, c.Id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancellationRepository_CreateIfAbsent_Conflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewCancellationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "cancellations"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	created, err := repo.CreateIfAbsent(context.Background(), &entity.Cancellation{
		UserId:          uuid.New(),
		SubscriptionId:  uuid.New(),
		DownsellVariant: entity.DownsellVariantA,
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancellationRepository_FindBySubscriptionID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewCancellationRepository(db)

	id, userId, subId := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "cancellations" WHERE subscription_id = \$1`).
		WillReturnRows(sqlmock.NewRows(cancellationColumns).
			AddRow(id.String(), userId.String(), subId.String(), "B", "too_expensive", "usage_details: 12", false, now, now))

	c, err := repo.FindBySubscriptionID(context.Background(), subId)

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, id, c.Id)
	assert.Equal(t, entity.DownsellVariantB, c.DownsellVariant)
	assert.Equal(t, entity.CancellationReasonTooExpensive, c.Reason)
	assert.Equal(t, "usage_details: 12", c.ReasonDetails)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancellationRepository_FindBySubscriptionID_NullColumns(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewCancellationRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "cancellations"`).
		WillReturnRows(sqlmock.NewRows(cancellationColumns).
			AddRow(uuid.NewString(), uuid.NewString(), uuid.NewString(), "A", nil, nil, false, now, now))

	c, err := repo.FindBySubscriptionID(context.Background(), uuid.New())

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, c.Reason)
	assert.Empty(t, c.ReasonDetails)
}

func TestCancellationRepository_FindBySubscriptionID_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewCancellationRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "cancellations"`).
		WillReturnRows(sqlmock.NewRows(cancellationColumns))

	c, err := repo.FindBySubscriptionID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancellationRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewCancellationRepository(db)

	accepted := true
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cancellations" SET .*"accepted_downsell"=\$1.* WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), uuid.New(), entity.CancellationPatch{AcceptedDownsell: &accepted})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancellationRepository_Update_EmptyPatch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := implementation.NewCancellationRepository(db)

	err := repo.Update(context.Background(), uuid.New(), entity.CancellationPatch{})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
