package models

import "time"

type Event struct {
	ID          int       `json:"id" db:"id"`
	ContainerID string    `json:"container_id" db:"container_id"`
	EventType   string    `json:"event_type" db:"event_type"`
	Quantity    *float64  `json:"quantity" db:"quantity"`
	Notes       *string   `json:"notes" db:"notes"`
	CreatedBy   *string   `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
