package events

import (
	"strings"

	"github.com/Marcelo-Rosas/container-storage/pkg/metadata"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

type CreateEventRequest struct {
	EventType string   `json:"event_type" binding:"required,max=50"`
	Quantity  *float64 `json:"quantity" binding:"omitempty,gte=0"`
	Notes     *string  `json:"notes" binding:"omitempty,max=1000"`
}

func (r CreateEventRequest) ToEvent(containerID string, userID string) (*models.Event, error) {
	eventType, err := metadata.NewEventType(r.EventType)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		ContainerID: containerID,
		EventType:   eventType.String(),
		Quantity:    r.Quantity,
		CreatedBy:   &userID,
	}
	if r.Notes != nil {
		if notes := strings.TrimSpace(*r.Notes); notes != "" {
			event.Notes = &notes
		}
	}

	return event, nil
}
