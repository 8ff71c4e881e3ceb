package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func selectIDs(ctx context.Context, db Querier) ([]string, error) {
	var ids []string
	err := db.From("containers").Select("id").ScanValsContext(ctx, &ids)
	return ids, err
}

func TestScopedSetsIdentityInTransaction(t *testing.T) {
	repo, mock := newMockRepository(t)
	repo.RowSecurity = true
	ctx := WithIdentity(context.Background(), Identity{UserID: "user-1", Role: "client", ClientID: "client-1"})

	mock.ExpectBegin()
	mock.ExpectExec(setIdentitySQL).
		WithArgs("user-1", "client", "client-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "id" FROM "containers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("k-1"))
	mock.ExpectCommit()

	var ids []string
	err := repo.Scoped(ctx, func(db Querier) error {
		var err error
		ids, err = selectIDs(ctx, db)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"k-1"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScopedRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepository(t)
	repo.RowSecurity = true
	ctx := WithIdentity(context.Background(), Identity{UserID: "user-1", Role: "operator"})
	failure := errors.New("insert failed")

	mock.ExpectBegin()
	mock.ExpectExec(setIdentitySQL).
		WithArgs("user-1", "operator", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.Scoped(ctx, func(db Querier) error {
		return failure
	})

	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScopedRunsDirectly(t *testing.T) {
	tests := []struct {
		name        string
		rowSecurity bool
		withCaller  bool
	}{
		{"row security disabled", false, true},
		{"no identity in context", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			repo.RowSecurity = tt.rowSecurity
			ctx := context.Background()
			if tt.withCaller {
				ctx = WithIdentity(ctx, Identity{UserID: "user-1", Role: "admin"})
			}

			mock.ExpectQuery(`SELECT "id" FROM "containers"`).
				WillReturnRows(sqlmock.NewRows([]string{"id"}))

			err := repo.Scoped(ctx, func(db Querier) error {
				assert.Same(t, repo.GoquDBWrapper, db)
				_, err := selectIDs(ctx, db)
				return err
			})

			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
