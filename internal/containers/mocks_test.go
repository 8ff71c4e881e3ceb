package containers

import (
	"context"

	"github.com/Marcelo-Rosas/container-storage/internal/clients"
	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/mock"
)

type MockContainerRepository struct {
	mock.Mock
}

func (m *MockContainerRepository) ListContainers(ctx context.Context, scope repository.QueryBuilder, query ListQuery) ([]models.ContainerOverview, int64, error) {
	args := m.Called(ctx, scope, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.ContainerOverview), args.Get(1).(int64), args.Error(2)
}

func (m *MockContainerRepository) ExportContainers(ctx context.Context, scope repository.QueryBuilder, query ListQuery, limit uint) ([]models.ContainerOverview, error) {
	args := m.Called(ctx, scope, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContainerOverview), args.Error(1)
}

func (m *MockContainerRepository) GetContainerOverviews(ctx context.Context, scope repository.QueryBuilder) ([]models.ContainerOverview, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContainerOverview), args.Error(1)
}

func (m *MockContainerRepository) GetContainerOverview(ctx context.Context, scope repository.QueryBuilder, id string) (*models.ContainerOverview, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContainerOverview), args.Error(1)
}

func (m *MockContainerRepository) GetContainer(ctx context.Context, id string) (*models.Container, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Container), args.Error(1)
}

func (m *MockContainerRepository) PersistContainer(ctx context.Context, container *models.Container) error {
	args := m.Called(ctx, container)
	return args.Error(0)
}

func (m *MockContainerRepository) UpdateContainer(ctx context.Context, id string, updates goqu.Record) (*models.Container, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Container), args.Error(1)
}

func (m *MockContainerRepository) RemoveContainer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockContainerTypeRepository struct {
	mock.Mock
}

func (m *MockContainerTypeRepository) GetContainerTypes(ctx context.Context) ([]models.ContainerType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ContainerType), args.Error(1)
}

func (m *MockContainerTypeRepository) GetContainerType(ctx context.Context, code string) (*models.ContainerType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContainerType), args.Error(1)
}

func (m *MockContainerTypeRepository) PersistContainerType(ctx context.Context, containerType *models.ContainerType) error {
	args := m.Called(ctx, containerType)
	return args.Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) ListClients(ctx context.Context, scope repository.QueryBuilder, query clients.ListQuery) ([]models.Client, int64, error) {
	args := m.Called(ctx, scope, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) GetClient(ctx context.Context, scope repository.QueryBuilder, id string) (*models.Client, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) PersistClient(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, id string, updates goqu.Record) (*models.Client, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) CountClients(ctx context.Context, scope repository.QueryBuilder) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetContainerItems(ctx context.Context, containerID string) ([]models.InventoryItem, error) {
	args := m.Called(ctx, containerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) PersistItem(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) RemoveItem(ctx context.Context, containerID string, itemID int) (*models.InventoryItem, error) {
	args := m.Called(ctx, containerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) GetContainerEvents(ctx context.Context, containerID string) ([]models.Event, error) {
	args := m.Called(ctx, containerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventRepository) PersistEvent(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type discardStore struct{}

func (discardStore) PersistLog(context.Context, models.AuditLog, interface{}) error { return nil }
