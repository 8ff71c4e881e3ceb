package containers

import (
	"context"
	"fmt"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ContainerRepository interface {
	ListContainers(ctx context.Context, scope repository.QueryBuilder, query ListQuery) ([]models.ContainerOverview, int64, error)
	ExportContainers(ctx context.Context, scope repository.QueryBuilder, query ListQuery, limit uint) ([]models.ContainerOverview, error)
	GetContainerOverviews(ctx context.Context, scope repository.QueryBuilder) ([]models.ContainerOverview, error)
	GetContainerOverview(ctx context.Context, scope repository.QueryBuilder, id string) (*models.ContainerOverview, error)
	GetContainer(ctx context.Context, id string) (*models.Container, error)
	PersistContainer(ctx context.Context, container *models.Container) error
	UpdateContainer(ctx context.Context, id string, updates goqu.Record) (*models.Container, error)
	RemoveContainer(ctx context.Context, id string) error
}

type containerRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ContainerRepository {
	return &containerRepository{repository: r}
}

var containerColumns = []interface{}{
	"id", "container_number", "internal_code", "bl_number", "client_id", "container_type_code", "status",
	"start_date", "end_date", "yard_location", "volume", "base_cost", "measurement_day", "notes",
	"created_by", "created_at",
}

func overview(db repository.Querier) *goqu.SelectDataset {
	return db.From(overviewView)
}

func (r *containerRepository) ListContainers(ctx context.Context, scope repository.QueryBuilder, query ListQuery) ([]models.ContainerOverview, int64, error) {
	containers := []models.ContainerOverview{}
	var total int64

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		page, count := query.Build(overview(db), scope)

		var err error
		total, err = count.CountContext(ctx)
		if err != nil {
			return fmt.Errorf("unable to count containers: %w", err)
		}

		if err := page.ScanStructsContext(ctx, &containers); err != nil {
			return fmt.Errorf("unable to execute SQL: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return containers, total, nil
}

func (r *containerRepository) ExportContainers(ctx context.Context, scope repository.QueryBuilder, query ListQuery, limit uint) ([]models.ContainerOverview, error) {
	containers := []models.ContainerOverview{}

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		export := query.Apply(overview(db), scope).
			Order(query.OrderBy()...).
			Limit(limit)

		if err := export.ScanStructsContext(ctx, &containers); err != nil {
			return fmt.Errorf("unable to execute SQL: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return containers, nil
}

// GetContainerOverviews returns every container visible through scope.
func (r *containerRepository) GetContainerOverviews(ctx context.Context, scope repository.QueryBuilder) ([]models.ContainerOverview, error) {
	containers := []models.ContainerOverview{}

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := repository.ApplyConditions(overview(db), nil, scope)
		if err := query.ScanStructsContext(ctx, &containers); err != nil {
			return fmt.Errorf("unable to execute SQL: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return containers, nil
}

func (r *containerRepository) GetContainerOverview(ctx context.Context, scope repository.QueryBuilder, id string) (*models.ContainerOverview, error) {
	var container models.ContainerOverview
	var found bool

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := repository.ApplyConditions(overview(db), nil, scope).Where(goqu.Ex{"id": id})

		var err error
		found, err = query.ScanStructContext(ctx, &container)
		if err != nil {
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

	return &container, nil
}

func (r *containerRepository) GetContainer(ctx context.Context, id string) (*models.Container, error) {
	var container models.Container
	var found bool

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Select(containerColumns...).
			From("containers").
			Where(goqu.Ex{"id": id})

		var err error
		found, err = query.ScanStructContext(ctx, &container)
		if err != nil {
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

	return &container, nil
}

func (r *containerRepository) PersistContainer(ctx context.Context, container *models.Container) error {
	var inserted struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Insert("containers").
			Rows(goqu.Record{
				"container_number":    container.ContainerNumber,
				"internal_code":       container.InternalCode,
				"bl_number":           container.BLNumber,
				"client_id":           container.ClientID,
				"container_type_code": container.ContainerTypeCode,
				"status":              container.Status,
				"start_date":          container.StartDate,
				"end_date":            container.EndDate,
				"yard_location":       container.YardLocation,
				"volume":              container.Volume,
				"base_cost":           container.BaseCost,
				"measurement_day":     container.MeasurementDay,
				"notes":               container.Notes,
				"created_by":          container.CreatedBy,
			}).
			Returning("id", "created_at")

		if _, err := query.Executor().ScanStructContext(ctx, &inserted); err != nil {
			return custom_error.FromDB("Failed to insert container", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	container.ID = inserted.ID
	container.CreatedAt = inserted.CreatedAt
	return nil
}

func (r *containerRepository) UpdateContainer(ctx context.Context, id string, updates goqu.Record) (*models.Container, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	var container models.Container
	var found bool

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Update("containers").
			Set(updates).
			Where(goqu.Ex{"id": id}).
			Returning(containerColumns...)

		var err error
		found, err = query.Executor().ScanStructContext(ctx, &container)
		if err != nil {
			return custom_error.FromDB("Failed to update container", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, custom_error.ErrNotFound
	}

	return &container, nil
}

// RemoveContainer deletes the container; its inventory and events go with
// it through ON DELETE CASCADE.
func (r *containerRepository) RemoveContainer(ctx context.Context, id string) error {
	var rowsAffected int64

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		result, err := db.Delete("containers").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx)
		if err != nil {
			return custom_error.FromDB("Failed to delete container", err)
		}

		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("could not retrieve rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return custom_error.ErrNotFound
	}

	return nil
}
