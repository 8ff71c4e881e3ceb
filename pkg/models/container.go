package models

import "time"

type Container struct {
	ID                string     `json:"id" db:"id"`
	ContainerNumber   string     `json:"container_number" db:"container_number"`
	InternalCode      string     `json:"internal_code" db:"internal_code"`
	BLNumber          *string    `json:"bl_number" db:"bl_number"`
	ClientID          string     `json:"client_id" db:"client_id"`
	ContainerTypeCode string     `json:"container_type_code" db:"container_type_code"`
	Status            string     `json:"status" db:"status"`
	StartDate         time.Time  `json:"start_date" db:"start_date"`
	EndDate           *time.Time `json:"end_date" db:"end_date"`
	YardLocation      *string    `json:"yard_location" db:"yard_location"`
	Volume            *float64   `json:"volume" db:"volume"`
	BaseCost          *float64   `json:"base_cost" db:"base_cost"`
	MeasurementDay    *int       `json:"measurement_day" db:"measurement_day"`
	Notes             *string    `json:"notes" db:"notes"`
	CreatedBy         *string    `json:"created_by" db:"created_by"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

func (c *Container) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   c.ID,
		ResourceType: "container",
	}
}

// ContainerOverview is a row of the container_overview view. It has no
// creation timestamp.
type ContainerOverview struct {
	ID                string     `json:"id" db:"id"`
	ContainerNumber   string     `json:"container_number" db:"container_number"`
	InternalCode      string     `json:"internal_code" db:"internal_code"`
	BLNumber          *string    `json:"bl_number" db:"bl_number"`
	ClientID          string     `json:"client_id" db:"client_id"`
	ClientName        *string    `json:"client_name" db:"client_name"`
	ContainerTypeCode string     `json:"container_type_code" db:"container_type_code"`
	ContainerTypeName *string    `json:"container_type_name" db:"container_type_name"`
	Status            string     `json:"status" db:"status"`
	StartDate         time.Time  `json:"start_date" db:"start_date"`
	EndDate           *time.Time `json:"end_date" db:"end_date"`
	YardLocation      *string    `json:"yard_location" db:"yard_location"`
	Volume            *float64   `json:"volume" db:"volume"`
	BaseCost          *float64   `json:"base_cost" db:"base_cost"`
	MeasurementDay    *int       `json:"measurement_day" db:"measurement_day"`
	Notes             *string    `json:"notes" db:"notes"`
	CreatedBy         *string    `json:"created_by" db:"created_by"`
	ItemCount         int        `json:"item_count" db:"item_count"`
	UsedVolume        float64    `json:"used_volume" db:"used_volume"`
	GrossWeight       float64    `json:"gross_weight" db:"gross_weight"`
}

type ContainerStats struct {
	ItemCount   int     `json:"item_count"`
	UsedVolume  float64 `json:"used_volume"`
	GrossWeight float64 `json:"gross_weight"`
}

type ContainerDetail struct {
	Container ContainerOverview `json:"container"`
	Stats     ContainerStats    `json:"stats"`
	Inventory []InventoryItem   `json:"inventory"`
	Events    []Event           `json:"events"`
}
