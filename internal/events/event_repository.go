package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// EventRepository has no update or delete: the event log is append-only.
type EventRepository interface {
	GetContainerEvents(ctx context.Context, containerID string) ([]models.Event, error)
	PersistEvent(ctx context.Context, event *models.Event) error
}

type eventRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) EventRepository {
	return &eventRepository{repository: r}
}

// GetContainerEvents returns the newest events first.
func (r *eventRepository) GetContainerEvents(ctx context.Context, containerID string) ([]models.Event, error) {
	events := []models.Event{}

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Select("id", "container_id", "event_type", "quantity", "notes", "created_by", "created_at").
			From("container_events").
			Where(goqu.Ex{"container_id": containerID}).
			Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())

		if err := query.ScanStructsContext(ctx, &events); err != nil {
			return fmt.Errorf("unable to execute SQL: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) PersistEvent(ctx context.Context, event *models.Event) error {
	var inserted struct {
		ID        int       `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Insert("container_events").
			Rows(goqu.Record{
				"container_id": event.ContainerID,
				"event_type":   event.EventType,
				"quantity":     event.Quantity,
				"notes":        event.Notes,
				"created_by":   event.CreatedBy,
			}).
			Returning("id", "created_at")

		if _, err := query.Executor().ScanStructContext(ctx, &inserted); err != nil {
			return custom_error.FromDB("Failed to insert container event", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	event.ID = inserted.ID
	event.CreatedAt = inserted.CreatedAt
	return nil
}
