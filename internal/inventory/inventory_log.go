package inventory

import (
	"context"

	"github.com/Marcelo-Rosas/container-storage/pkg/auditlog"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

// InventoryLog writes inventory changes into the owning container's audit
// trail.
type InventoryLog struct {
	a *auditlog.Auditlog
}

func NewInventoryLog(a *auditlog.Auditlog) *InventoryLog {
	return &InventoryLog{a: a}
}

func (l *InventoryLog) CreateItemLogEntry(ctx context.Context, action string, userID string, item *models.InventoryItem, msg string) {
	container := &models.Container{ID: item.ContainerID}
	l.a.Log(ctx, action, userID,
		map[string]interface{}{
			"inventory_item_id": item.ID,
			"sku":               item.SKU,
			"quantity":          item.Quantity,
			"msg":               msg,
		},
		container,
	)
}
