package models

import "time"

type InventoryItem struct {
	ID          int       `json:"id" db:"id"`
	ContainerID string    `json:"container_id" db:"container_id"`
	SKU         string    `json:"sku" db:"sku"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	UnitVolume  float64   `json:"unit_volume" db:"unit_volume"`
	UnitWeight  float64   `json:"unit_weight" db:"unit_weight"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Volume is the space taken by the whole line.
func (i InventoryItem) Volume() float64 {
	return i.Quantity * i.UnitVolume
}

func (i InventoryItem) GrossWeight() float64 {
	return i.Quantity * i.UnitWeight
}
