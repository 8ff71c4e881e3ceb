package auditlog

import (
	"context"
	"net/http"

	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/gin-gonic/gin"
)

type Reader interface {
	GetResourceLog(ctx context.Context, resourceType string, resourceID string) ([]models.AuditLog, error)
}

type AuditLogHandler struct {
	Repository Reader
}

func NewHandler(r Reader) *AuditLogHandler {
	return &AuditLogHandler{Repository: r}
}

var resourceTypes = map[string]bool{
	"client":    true,
	"container": true,
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	resourceType := c.Param("type")
	if !resourceTypes[resourceType] {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown resource type"})
		return
	}

	logs, err := h.Repository.GetResourceLog(c.Request.Context(), resourceType, c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve audit log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
