package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register postgres dialect
	"github.com/google/uuid"
)

const Dialect = "postgres"

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database

	// RowSecurity makes Scoped hand the request identity to the row
	// security policies of the database.
	RowSecurity bool
}

// Querier is what goqu.Database and goqu.TxDatabase have in common for
// building statements.
type Querier interface {
	From(from ...interface{}) *goqu.SelectDataset
	Select(cols ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

// Identity is the caller as the row security policies see it.
type Identity struct {
	UserID   string
	Role     string
	ClientID string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

const setIdentitySQL = `SELECT set_config('app.current_user_id', $1, true), ` +
	`set_config('app.current_role', $2, true), ` +
	`set_config('app.current_client_id', $3, true)`

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New(Dialect, db),
	}
}

// Ping is used by the health check.
func (r *Repository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// IsValidID reports whether id can be a primary key of the uuid tables. Ids
// that cannot are treated as missing rows instead of reaching the database.
func IsValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// Scoped runs fn with the statements scoped to the identity in ctx. With
// RowSecurity on, fn runs in a transaction whose app.current_* settings
// carry that identity; the settings end with the transaction. Without an
// identity or with RowSecurity off, fn runs directly on the pool.
func (r *Repository) Scoped(ctx context.Context, fn func(db Querier) error) error {
	identity, ok := IdentityFromContext(ctx)
	if !r.RowSecurity || !ok {
		return fn(r.GoquDBWrapper)
	}

	return WithTransaction(ctx, r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if _, err := tx.ExecContext(ctx, setIdentitySQL, identity.UserID, identity.Role, identity.ClientID); err != nil {
			return fmt.Errorf("failed to set row security identity: %w", err)
		}
		return fn(tx)
	})
}

func WithTransaction(ctx context.Context, db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}
