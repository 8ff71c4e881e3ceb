package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type InventoryRepository interface {
	GetContainerItems(ctx context.Context, containerID string) ([]models.InventoryItem, error)
	PersistItem(ctx context.Context, item *models.InventoryItem) error
	RemoveItem(ctx context.Context, containerID string, itemID int) (*models.InventoryItem, error)
}

type inventoryRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) InventoryRepository {
	return &inventoryRepository{repository: r}
}

var itemColumns = []interface{}{
	"id", "container_id", "sku", "product_name", "quantity", "unit_volume", "unit_weight", "created_at",
}

func (r *inventoryRepository) GetContainerItems(ctx context.Context, containerID string) ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Select(itemColumns...).
			From("inventory_items").
			Where(goqu.Ex{"container_id": containerID}).
			Order(goqu.C("sku").Asc(), goqu.C("id").Asc())

		if err := query.ScanStructsContext(ctx, &items); err != nil {
			return fmt.Errorf("unable to execute SQL: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *inventoryRepository) PersistItem(ctx context.Context, item *models.InventoryItem) error {
	var inserted struct {
		ID        int       `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Insert("inventory_items").
			Rows(goqu.Record{
				"container_id": item.ContainerID,
				"sku":          item.SKU,
				"product_name": item.ProductName,
				"quantity":     item.Quantity,
				"unit_volume":  item.UnitVolume,
				"unit_weight":  item.UnitWeight,
			}).
			Returning("id", "created_at")

		if _, err := query.Executor().ScanStructContext(ctx, &inserted); err != nil {
			return custom_error.FromDB("Failed to insert inventory item", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	item.ID = inserted.ID
	item.CreatedAt = inserted.CreatedAt
	return nil
}

func (r *inventoryRepository) RemoveItem(ctx context.Context, containerID string, itemID int) (*models.InventoryItem, error) {
	var item models.InventoryItem
	var found bool

	err := r.repository.Scoped(ctx, func(db repository.Querier) error {
		query := db.Delete("inventory_items").
			Where(goqu.Ex{"id": itemID, "container_id": containerID}).
			Returning(itemColumns...)

		var err error
		found, err = query.Executor().ScanStructContext(ctx, &item)
		if err != nil {
			return fmt.Errorf("failed to delete inventory item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, custom_error.ErrNotFound
	}

	return &item, nil
}
