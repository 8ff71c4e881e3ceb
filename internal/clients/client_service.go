package clients

import (
	"context"
	"fmt"

	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	"github.com/Marcelo-Rosas/container-storage/pkg/auditlog"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
)

type ClientService struct {
	Repository ClientRepository
	Policy     *access.Policy
	AuditLog   *auditlog.Auditlog
}

func NewClientService(r ClientRepository, policy *access.Policy, a *auditlog.Auditlog) *ClientService {
	return &ClientService{Repository: r, Policy: policy, AuditLog: a}
}

func (s *ClientService) ListClients(ctx context.Context, identity session.Identity, query ListQuery) (repository.Page[models.Client], error) {
	scope, err := s.Policy.ClientScope(identity)
	if err != nil {
		return repository.Page[models.Client]{}, err
	}

	clients, total, err := s.Repository.ListClients(ctx, scope, query)
	if err != nil {
		return repository.Page[models.Client]{}, err
	}

	pagination := repository.NewPagination(query.Page, query.PageSize, repository.DefaultPageSizes)
	return repository.NewPage(clients, pagination, total), nil
}

// GetClient returns ErrNotFound for clients outside the caller's scope.
func (s *ClientService) GetClient(ctx context.Context, identity session.Identity, id string) (*models.Client, error) {
	scope, err := s.Policy.ClientScope(identity)
	if err != nil {
		return nil, err
	}
	if !repository.IsValidID(id) {
		return nil, custom_error.ErrNotFound
	}
	return s.Repository.GetClient(ctx, scope, id)
}

// CreateClient stores a new client owned by the caller.
func (s *ClientService) CreateClient(ctx context.Context, identity session.Identity, req CreateClientRequest) (*models.Client, error) {
	if !s.Policy.CanManageContainers(identity) {
		return nil, custom_error.ErrForbidden
	}

	client := req.ToClient(identity.UserID)
	if err := s.Repository.PersistClient(ctx, client); err != nil {
		return nil, err
	}

	s.AuditLog.Log(ctx, auditlog.ActionCreate, identity.UserID, client, client)
	return client, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, identity session.Identity, id string, req UpdateClientRequest) (*models.Client, error) {
	existing, err := s.GetClient(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if !s.Policy.CanWriteClient(identity, existing.OwnerID) {
		return nil, custom_error.ErrForbidden
	}

	changes := req.Changes()
	if len(changes) == 0 {
		return existing, nil
	}

	client, err := s.Repository.UpdateClient(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.AuditLog.Log(ctx, auditlog.ActionUpdate, identity.UserID, changes, client)
	return client, nil
}

func (s *ClientService) CountClients(ctx context.Context, identity session.Identity) (int64, error) {
	scope, err := s.Policy.ClientScope(identity)
	if err != nil {
		return 0, err
	}

	total, err := s.Repository.CountClients(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return total, nil
}
