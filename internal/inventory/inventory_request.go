package inventory

import (
	"strings"

	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

type CreateItemRequest struct {
	SKU         string  `json:"sku" binding:"required,max=50"`
	ProductName string  `json:"product_name" binding:"required,max=200"`
	Quantity    float64 `json:"quantity" binding:"gt=0"`
	UnitVolume  float64 `json:"unit_volume" binding:"gte=0"`
	UnitWeight  float64 `json:"unit_weight" binding:"gte=0"`
}

func (r CreateItemRequest) ToItem(containerID string) *models.InventoryItem {
	return &models.InventoryItem{
		ContainerID: containerID,
		SKU:         strings.ToUpper(strings.TrimSpace(r.SKU)),
		ProductName: strings.TrimSpace(r.ProductName),
		Quantity:    r.Quantity,
		UnitVolume:  r.UnitVolume,
		UnitWeight:  r.UnitWeight,
	}
}
