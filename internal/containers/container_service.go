package containers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/clients"
	"github.com/Marcelo-Rosas/container-storage/internal/containertypes"
	"github.com/Marcelo-Rosas/container-storage/internal/events"
	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/inventory"
	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	"github.com/Marcelo-Rosas/container-storage/pkg/auditlog"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"go.uber.org/zap"
)

const ExportLimit = 5000

// LinkError is returned by a create that stored a new client but failed to
// store the container. The client is kept.
type LinkError struct {
	ClientID string
	Err      error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("client %s was created but the container was not: %v", e.ClientID, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

type ContainerService struct {
	Repository     ContainerRepository
	ContainerTypes containertypes.ContainerTypeRepository
	Clients        *clients.ClientService
	Inventory      inventory.InventoryRepository
	Events         events.EventRepository
	Policy         *access.Policy
	AuditLog       *auditlog.Auditlog
	Logger         *zap.Logger
}

func NewContainerService(
	r ContainerRepository,
	containerTypes containertypes.ContainerTypeRepository,
	clientService *clients.ClientService,
	inventoryRepository inventory.InventoryRepository,
	eventRepository events.EventRepository,
	policy *access.Policy,
	a *auditlog.Auditlog,
	logger *zap.Logger,
) *ContainerService {
	return &ContainerService{
		Repository:     r,
		ContainerTypes: containerTypes,
		Clients:        clientService,
		Inventory:      inventoryRepository,
		Events:         eventRepository,
		Policy:         policy,
		AuditLog:       a,
		Logger:         logger,
	}
}

func (s *ContainerService) ListContainers(ctx context.Context, identity session.Identity, query ListQuery) (repository.Page[models.ContainerOverview], error) {
	scope, err := s.containerScope(identity)
	if err != nil {
		return repository.Page[models.ContainerOverview]{}, err
	}

	containers, total, err := s.Repository.ListContainers(ctx, scope, query)
	if err != nil {
		return repository.Page[models.ContainerOverview]{}, err
	}

	return repository.NewPage(containers, query.Pagination(), total), nil
}

func (s *ContainerService) ExportContainers(ctx context.Context, identity session.Identity, query ListQuery) ([]models.ContainerOverview, error) {
	scope, err := s.containerScope(identity)
	if err != nil {
		return nil, err
	}
	return s.Repository.ExportContainers(ctx, scope, query, ExportLimit)
}

// GetContainerOverviews is every container the identity can see, for the
// dashboard.
func (s *ContainerService) GetContainerOverviews(ctx context.Context, identity session.Identity) ([]models.ContainerOverview, error) {
	scope, err := s.containerScope(identity)
	if err != nil {
		return nil, err
	}
	return s.Repository.GetContainerOverviews(ctx, scope)
}

// AuthorizeContainer returns ErrNotFound when the container does not exist
// and ErrForbidden when it exists but belongs to another client.
func (s *ContainerService) AuthorizeContainer(ctx context.Context, identity session.Identity, containerID string) error {
	_, err := s.getVisibleContainer(ctx, identity, containerID)
	return err
}

func (s *ContainerService) GetContainerDetail(ctx context.Context, identity session.Identity, containerID string) (*models.ContainerDetail, error) {
	container, err := s.getVisibleContainer(ctx, identity, containerID)
	if err != nil {
		return nil, err
	}

	items, err := s.Inventory.GetContainerItems(ctx, containerID)
	if err != nil {
		return nil, err
	}
	containerEvents, err := s.Events.GetContainerEvents(ctx, containerID)
	if err != nil {
		return nil, err
	}

	return &models.ContainerDetail{
		Container: *container,
		Stats:     Aggregate(items),
		Inventory: items,
		Events:    containerEvents,
	}, nil
}

func (s *ContainerService) getVisibleContainer(ctx context.Context, identity session.Identity, containerID string) (*models.ContainerOverview, error) {
	if !repository.IsValidID(containerID) {
		return nil, custom_error.ErrNotFound
	}

	scope, err := s.containerScope(identity)
	if err != nil {
		return nil, err
	}

	container, err := s.Repository.GetContainerOverview(ctx, scope, containerID)
	if errors.Is(err, custom_error.ErrNotFound) && !scope.IsEmpty() {
		// Tell "not yours" apart from "does not exist".
		if _, lookupErr := s.Repository.GetContainer(ctx, containerID); lookupErr == nil {
			return nil, custom_error.ErrForbidden
		}
		return nil, err
	} else if err != nil {
		return nil, err
	}

	if !s.Policy.CanViewContainer(identity, container.ClientID) {
		return nil, custom_error.ErrForbidden
	}

	return container, nil
}

// CreateContainer stores the container. With a new client in the request the
// client is stored first, as a separate write; if the container then fails
// the error is a *LinkError carrying the client id.
func (s *ContainerService) CreateContainer(ctx context.Context, identity session.Identity, req CreateContainerRequest) (*models.Container, error) {
	if !s.Policy.CanManageContainers(identity) {
		return nil, custom_error.ErrForbidden
	}

	container, err := req.ToContainer("", identity.UserID)
	if err != nil {
		return nil, err
	}

	containerType, err := s.ContainerTypes.GetContainerType(ctx, container.ContainerTypeCode)
	if errors.Is(err, custom_error.ErrNotFound) {
		return nil, forms.NewValidationError("container_type_code", "does not exist")
	} else if err != nil {
		return nil, err
	}
	if container.BaseCost == nil && containerType.DefaultBaseCost != nil {
		cost := *containerType.DefaultBaseCost
		container.BaseCost = &cost
	}

	if req.NewClient != nil {
		client, err := s.Clients.CreateClient(ctx, identity, *req.NewClient)
		if err != nil {
			return nil, err
		}
		container.ClientID = client.ID

		if err := s.persist(ctx, identity, container); err != nil {
			s.Logger.Warn("Client created but container was not",
				zap.String("client_id", client.ID),
				zap.String("container_number", container.ContainerNumber),
				zap.Error(err))
			return nil, &LinkError{ClientID: client.ID, Err: err}
		}
		return container, nil
	}

	if _, err := s.Clients.GetClient(ctx, identity, req.ClientID); errors.Is(err, custom_error.ErrNotFound) {
		return nil, forms.NewValidationError("client_id", "does not exist")
	} else if err != nil {
		return nil, err
	}
	container.ClientID = req.ClientID

	if err := s.persist(ctx, identity, container); err != nil {
		return nil, err
	}
	return container, nil
}

func (s *ContainerService) persist(ctx context.Context, identity session.Identity, container *models.Container) error {
	if err := s.Repository.PersistContainer(ctx, container); err != nil {
		return err
	}

	s.AuditLog.Log(ctx, auditlog.ActionCreate, identity.UserID, container, container)
	return nil
}

func (s *ContainerService) UpdateContainer(ctx context.Context, identity session.Identity, containerID string, req UpdateContainerRequest) (*models.Container, error) {
	if !s.Policy.CanManageContainers(identity) {
		return nil, custom_error.ErrForbidden
	}
	if err := s.AuthorizeContainer(ctx, identity, containerID); err != nil {
		return nil, err
	}

	existing, err := s.Repository.GetContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}

	updates, violations := req.Changes(existing)
	if !violations.Empty() {
		return nil, &forms.ValidationError{Violations: violations}
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if req.ClientID != nil {
		if _, err := s.Clients.GetClient(ctx, identity, *req.ClientID); errors.Is(err, custom_error.ErrNotFound) {
			return nil, forms.NewValidationError("client_id", "does not exist")
		} else if err != nil {
			return nil, err
		}
	}
	if code, ok := updates["container_type_code"].(string); ok {
		if _, err := s.ContainerTypes.GetContainerType(ctx, code); errors.Is(err, custom_error.ErrNotFound) {
			return nil, forms.NewValidationError("container_type_code", "does not exist")
		} else if err != nil {
			return nil, err
		}
	}

	container, err := s.Repository.UpdateContainer(ctx, containerID, updates)
	if err != nil {
		return nil, err
	}

	s.AuditLog.Log(ctx, auditlog.ActionUpdate, identity.UserID, updates, container)
	return container, nil
}

// RemoveContainer is admin only. Inventory and events are removed with it.
func (s *ContainerService) RemoveContainer(ctx context.Context, identity session.Identity, containerID string) error {
	if !identity.IsAdmin() {
		return custom_error.ErrForbidden
	}
	if !repository.IsValidID(containerID) {
		return custom_error.ErrNotFound
	}

	if err := s.Repository.RemoveContainer(ctx, containerID); err != nil {
		return err
	}

	s.AuditLog.Log(ctx, auditlog.ActionDelete, identity.UserID, nil, &models.Container{ID: containerID})
	return nil
}

func (s *ContainerService) containerScope(identity session.Identity) (access.Scope, error) {
	scope, err := s.Policy.ContainerScope(identity)
	if errors.Is(err, access.ErrNoAssignedClient) {
		return nil, fmt.Errorf("%w: %w", custom_error.ErrForbidden, err)
	}
	return scope, err
}
