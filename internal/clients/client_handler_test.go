package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	"github.com/Marcelo-Rosas/container-storage/pkg/auditlog"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
	"github.com/Marcelo-Rosas/container-storage/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) ListClients(ctx context.Context, scope repository.QueryBuilder, query ListQuery) ([]models.Client, int64, error) {
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

type discardStore struct{}

func (discardStore) PersistLog(context.Context, models.AuditLog, interface{}) error { return nil }

const clientUUID = "3f6d8b2a-1c4e-4a7f-9b0d-6e2a5c8f1d47"

var (
	operator = session.Identity{UserID: "op-1", Role: roles.Operator}
	admin    = session.Identity{UserID: "admin-1", Role: roles.Admin}
	customer = session.Identity{UserID: "u-9", Role: roles.Client, ClientID: clientUUID}
)

func newTestHandler() (*ClientHandler, *MockClientRepository) {
	forms.RegisterValidators()
	repo := new(MockClientRepository)
	service := NewClientService(repo, access.NewPolicy(), auditlog.NewAuditLog(discardStore{}, nil))
	return NewClientHandler(service), repo
}

func setupTestContext(identity session.Identity) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	session.SetContext(c, identity)
	return c, w
}

func TestCreateClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockRepo := newTestHandler()

	tests := []struct {
		name           string
		identity       session.Identity
		payload        map[string]interface{}
		setupMock      func()
		expectedStatus int
		expectedFields map[string]string
	}{
		{
			name:     "tax id is stored as digits only",
			identity: operator,
			payload:  map[string]interface{}{"name": "ACME", "tax_id": "12.345.678/0001-95", "email": "ops@acme.test"},
			setupMock: func() {
				mockRepo.On("PersistClient", mock.Anything, mock.MatchedBy(func(c *models.Client) bool {
					return c.TaxID == "12345678000195" && c.OwnerID == "op-1"
				})).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "short tax id never reaches the database",
			identity:       operator,
			payload:        map[string]interface{}{"name": "ACME", "tax_id": "123"},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedFields: map[string]string{"tax_id": "must have 14 digits"},
		},
		{
			name:           "invalid email",
			identity:       operator,
			payload:        map[string]interface{}{"name": "ACME", "tax_id": "12345678000195", "email": "acme"},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedFields: map[string]string{"email": "must be a valid email address"},
		},
		{
			name:     "duplicate tax id",
			identity: operator,
			payload:  map[string]interface{}{"name": "ACME", "tax_id": "12345678000195"},
			setupMock: func() {
				mockRepo.On("PersistClient", mock.Anything, mock.Anything).
					Return(custom_error.WrapDBError("Failed to insert client", &pq.Error{Code: "23505", Constraint: "clients_tax_id_key"}))
			},
			expectedStatus: http.StatusConflict,
			expectedFields: map[string]string{"tax_id": "already registered"},
		},
		{
			name:           "restricted identities cannot create clients",
			identity:       customer,
			payload:        map[string]interface{}{"name": "ACME", "tax_id": "12345678000195"},
			setupMock:      func() {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext(tt.identity)

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/clients", bytes.NewBuffer(body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.CreateClient(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedFields != nil {
				var response struct {
					Fields map[string]string `json:"fields"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedFields, response.Fields)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetClientsIsScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockRepo := newTestHandler()

	mockRepo.On("ListClients", mock.Anything, access.Scope{"id": clientUUID}, mock.Anything).
		Return([]models.Client{{ID: clientUUID, Name: "ACME"}}, int64(1), nil)

	c, w := setupTestContext(customer)
	c.Request = httptest.NewRequest("GET", "/clients?page=1&page_size=20", nil)

	handler.GetClients(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var page repository.Page[models.Client]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, "Showing 1-1 of 1", page.PageInfo)
	mockRepo.AssertExpectations(t)
}

func TestUpdateClientOwnership(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockRepo := newTestHandler()
	name := "ACME Global"

	tests := []struct {
		name           string
		identity       session.Identity
		setupMock      func()
		expectedStatus int
	}{
		{
			name:     "owner updates",
			identity: operator,
			setupMock: func() {
				mockRepo.On("GetClient", mock.Anything, access.Scope{"owner_id": "op-1"}, clientUUID).
					Return(&models.Client{ID: clientUUID, OwnerID: "op-1"}, nil)
				mockRepo.On("UpdateClient", mock.Anything, clientUUID, goqu.Record{"name": name}).
					Return(&models.Client{ID: clientUUID, Name: name, OwnerID: "op-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "client outside scope",
			identity: operator,
			setupMock: func() {
				mockRepo.On("GetClient", mock.Anything, access.Scope{"owner_id": "op-1"}, clientUUID).
					Return(nil, custom_error.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:     "restricted identity may read but not write",
			identity: customer,
			setupMock: func() {
				mockRepo.On("GetClient", mock.Anything, access.Scope{"id": clientUUID}, clientUUID).
					Return(&models.Client{ID: clientUUID, OwnerID: "op-1"}, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:     "admin bypasses ownership",
			identity: admin,
			setupMock: func() {
				mockRepo.On("GetClient", mock.Anything, access.Scope{}, clientUUID).
					Return(&models.Client{ID: clientUUID, OwnerID: "op-1"}, nil)
				mockRepo.On("UpdateClient", mock.Anything, clientUUID, goqu.Record{"name": name}).
					Return(&models.Client{ID: clientUUID, Name: name, OwnerID: "op-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext(tt.identity)
			c.Params = gin.Params{{Key: "id", Value: clientUUID}}

			body, _ := json.Marshal(map[string]string{"name": name})
			c.Request = httptest.NewRequest("PATCH", "/clients/"+clientUUID, bytes.NewBuffer(body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.UpdateClient(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSearchExpression(t *testing.T) {
	assert.Nil(t, searchExpression("  "))

	sql, _, err := goqu.Dialect(repository.Dialect).From("clients").Where(searchExpression("12.345")).ToSQL()
	require.NoError(t, err)
	assert.Contains(t, sql, `"name" ILIKE '%12.345%'`)
	assert.Contains(t, sql, `"tax_id" LIKE '%12345%'`)
}

func TestGetClientWithMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, mockRepo := newTestHandler()

	c, w := setupTestContext(admin)
	c.Params = gin.Params{{Key: "id", Value: "12345678000195"}}
	c.Request = httptest.NewRequest("GET", "/clients/12345678000195", nil)

	handler.GetClient(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockRepo.AssertNotCalled(t, "GetClient", mock.Anything, mock.Anything, mock.Anything)
}
