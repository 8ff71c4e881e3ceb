package inventory

import (
	"context"

	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	"github.com/Marcelo-Rosas/container-storage/pkg/auditlog"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

type InventoryService struct {
	Repository   InventoryRepository
	Containers   ContainerAccess
	Policy       *access.Policy
	InventoryLog *InventoryLog
}

func NewInventoryService(r InventoryRepository, containers ContainerAccess, policy *access.Policy, log *InventoryLog) *InventoryService {
	return &InventoryService{Repository: r, Containers: containers, Policy: policy, InventoryLog: log}
}

func (s *InventoryService) GetContainerItems(ctx context.Context, identity session.Identity, containerID string) ([]models.InventoryItem, error) {
	if err := s.Containers.AuthorizeContainer(ctx, identity, containerID); err != nil {
		return nil, err
	}
	return s.Repository.GetContainerItems(ctx, containerID)
}

func (s *InventoryService) AddItem(ctx context.Context, identity session.Identity, containerID string, req CreateItemRequest) (*models.InventoryItem, error) {
	if !s.Policy.CanManageContainers(identity) {
		return nil, custom_error.ErrForbidden
	}
	if err := s.Containers.AuthorizeContainer(ctx, identity, containerID); err != nil {
		return nil, err
	}

	item := req.ToItem(containerID)
	if err := s.Repository.PersistItem(ctx, item); err != nil {
		return nil, err
	}

	s.InventoryLog.CreateItemLogEntry(ctx, auditlog.ActionCreate, identity.UserID, item, "Item stored in container")
	return item, nil
}

func (s *InventoryService) RemoveItem(ctx context.Context, identity session.Identity, containerID string, itemID int) error {
	if !s.Policy.CanManageContainers(identity) {
		return custom_error.ErrForbidden
	}
	if err := s.Containers.AuthorizeContainer(ctx, identity, containerID); err != nil {
		return err
	}

	item, err := s.Repository.RemoveItem(ctx, containerID, itemID)
	if err != nil {
		return err
	}

	s.InventoryLog.CreateItemLogEntry(ctx, auditlog.ActionDelete, identity.UserID, item, "Item removed from container")
	return nil
}
