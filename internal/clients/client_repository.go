package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/metadata"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type ClientRepository interface {
	ListClients(ctx context.Context, scope repository.QueryBuilder, query ListQuery) ([]models.Client, int64, error)
	GetClient(ctx context.Context, scope repository.QueryBuilder, id string) (*models.Client, error)
	PersistClient(ctx context.Context, client *models.Client) error
	UpdateClient(ctx context.Context, id string, updates goqu.Record) (*models.Client, error)
	CountClients(ctx context.Context, scope repository.QueryBuilder) (int64, error)
}

type clientRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ClientRepository {
	return &clientRepository{repository: r}
}

var clientColumns = []interface{}{
	"id", "name", "trade_name", "tax_id", "email", "phone", "address", "owner_id", "created_at",
}

func (r *clientRepository) ListClients(ctx context.Context, scope repository.QueryBuilder, query ListQuery) ([]models.Client, int64, error) {
	clients := []models.Client{}
	var total int64
	pagination := repository.NewPagination(query.Page, query.PageSize, repository.DefaultPageSizes)

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		filtered := repository.ApplyConditions(db.From("clients"), nil, scope)
		if search := searchExpression(query.Search); search != nil {
			filtered = filtered.Where(search)
		}

		var err error
		total, err = filtered.CountContext(ctx)
		if err != nil {
			return fmt.Errorf("unable to count clients: %w", err)
		}

		err = filtered.Select(clientColumns...).
			Order(goqu.C("name").Asc(), goqu.C("id").Asc()).
			Limit(pagination.Limit()).
			Offset(pagination.Offset()).
			ScanStructsContext(ctx, &clients)
		if err != nil {
			return fmt.Errorf("unable to execute SQL: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

func searchExpression(search string) exp.Expression {
	term := strings.TrimSpace(search)
	if term == "" {
		return nil
	}

	matches := []exp.Expression{
		goqu.C("name").ILike("%" + escapeLike(term) + "%"),
		goqu.C("trade_name").ILike("%" + escapeLike(term) + "%"),
	}
	if digits := metadata.NormalizeTaxID(term); digits != "" {
		matches = append(matches, goqu.C("tax_id").Like("%"+digits+"%"))
	}

	return goqu.Or(matches...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func (r *clientRepository) GetClient(ctx context.Context, scope repository.QueryBuilder, id string) (*models.Client, error) {
	var client models.Client
	var found bool

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := repository.ApplyConditions(db.From("clients"), nil, scope).
			Select(clientColumns...).
			Where(goqu.Ex{"id": id})

		var err error
		found, err = query.ScanStructContext(ctx, &client)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("unable to execute SQL: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, custom_error.ErrNotFound
	}

	return &client, nil
}

func (r *clientRepository) PersistClient(ctx context.Context, client *models.Client) error {
	var inserted struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Insert("clients").
			Rows(goqu.Record{
				"name":       client.Name,
				"trade_name": client.TradeName,
				"tax_id":     client.TaxID,
				"email":      client.Email,
				"phone":      client.Phone,
				"address":    client.Address,
				"owner_id":   client.OwnerID,
			}).
			Returning("id", "created_at")

		if _, err := query.Executor().ScanStructContext(ctx, &inserted); err != nil {
			return custom_error.FromDB("Failed to insert client", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	client.ID = inserted.ID
	client.CreatedAt = inserted.CreatedAt
	return nil
}

func (r *clientRepository) UpdateClient(ctx context.Context, id string, updates goqu.Record) (*models.Client, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	var client models.Client
	var found bool

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Update("clients").
			Set(updates).
			Where(goqu.Ex{"id": id}).
			Returning(clientColumns...)

		var err error
		found, err = query.Executor().ScanStructContext(ctx, &client)
		if err != nil {
			return custom_error.FromDB("Failed to update client", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, custom_error.ErrNotFound
	}

	return &client, nil
}

func (r *clientRepository) CountClients(ctx context.Context, scope repository.QueryBuilder) (int64, error) {
	var total int64

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		var err error
		total, err = repository.ApplyConditions(db.From("clients"), nil, scope).CountContext(ctx)
		if err != nil {
			return fmt.Errorf("unable to count clients: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}
