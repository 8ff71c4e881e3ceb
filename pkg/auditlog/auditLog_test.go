package auditlog

import (
	"context"
	"errors"
	"testing"

	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) PersistLog(ctx context.Context, auditLog models.AuditLog, data interface{}) error {
	args := m.Called(ctx, auditLog, data)
	return args.Error(0)
}

func TestLogFillsActionAndUser(t *testing.T) {
	store := new(MockStore)
	auditLog := NewAuditLog(store, nil)
	client := &models.Client{ID: "c-1", Name: "ACME"}

	store.On("PersistLog", mock.Anything, mock.MatchedBy(func(l models.AuditLog) bool {
		return l.ResourceID == "c-1" && l.ResourceType == "client" && l.Action == ActionCreate &&
			l.UserID != nil && *l.UserID == "u-1"
	}), client).Return(nil)

	auditLog.Log(context.Background(), ActionCreate, "u-1", client, client)

	store.AssertExpectations(t)
}

func TestLogSwallowsStoreErrors(t *testing.T) {
	store := new(MockStore)
	auditLog := NewAuditLog(store, nil)
	container := &models.Container{ID: "k-1"}

	store.On("PersistLog", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	assert.NotPanics(t, func() {
		auditLog.Log(context.Background(), ActionUpdate, "", nil, container)
	})
	store.AssertExpectations(t)
}
