package auditlog

import (
	"context"

	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"go.uber.org/zap"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Store interface {
	PersistLog(ctx context.Context, auditLog models.AuditLog, data interface{}) error
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

type Auditlog struct {
	store  Store
	logger *zap.Logger
}

// Log records action on item. A failure to write the entry is logged and
// never fails the request that triggered it.
func (a *Auditlog) Log(ctx context.Context, action string, userID string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	if userID != "" {
		auditLog.UserID = &userID
	}

	if err := a.store.PersistLog(ctx, auditLog, data); err != nil {
		a.logger.Warn("Unable to create audit log entry",
			zap.String("resource_type", auditLog.ResourceType),
			zap.String("resource_id", auditLog.ResourceID),
			zap.Error(err))
		return
	}

	a.logger.Debug("Created audit log entry",
		zap.String("resource_type", auditLog.ResourceType),
		zap.String("resource_id", auditLog.ResourceID),
		zap.String("action", action))
}

func NewAuditLog(store Store, logger *zap.Logger) *Auditlog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditlog{store: store, logger: logger}
}
