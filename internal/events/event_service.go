package events

import (
	"context"

	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

type ContainerAccess interface {
	AuthorizeContainer(ctx context.Context, identity session.Identity, containerID string) error
}

type EventService struct {
	Repository EventRepository
	Containers ContainerAccess
	Policy     *access.Policy
}

func NewEventService(r EventRepository, containers ContainerAccess, policy *access.Policy) *EventService {
	return &EventService{Repository: r, Containers: containers, Policy: policy}
}

func (s *EventService) GetContainerEvents(ctx context.Context, identity session.Identity, containerID string) ([]models.Event, error) {
	if err := s.Containers.AuthorizeContainer(ctx, identity, containerID); err != nil {
		return nil, err
	}
	return s.Repository.GetContainerEvents(ctx, containerID)
}

func (s *EventService) RecordEvent(ctx context.Context, identity session.Identity, containerID string, req CreateEventRequest) (*models.Event, error) {
	if !s.Policy.CanManageContainers(identity) {
		return nil, custom_error.ErrForbidden
	}
	if err := s.Containers.AuthorizeContainer(ctx, identity, containerID); err != nil {
		return nil, err
	}

	event, err := req.ToEvent(containerID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.Repository.PersistEvent(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}
