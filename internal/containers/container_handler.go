package containers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/clients"
	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const listRoute = "/containers"

type ContainerHandler struct {
	Service *ContainerService
	Logger  *zap.Logger
}

func NewContainerHandler(s *ContainerService, logger *zap.Logger) *ContainerHandler {
	return &ContainerHandler{Service: s, Logger: logger}
}

func (h *ContainerHandler) GetContainers(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "fields": forms.FieldErrors(err)})
		return
	}

	page, err := h.Service.ListContainers(c.Request.Context(), identity, query)
	if err != nil {
		h.Logger.Error("Unable to retrieve containers", zap.Error(err))
		h.respondError(c, err, "Unable to retrieve containers")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ContainerHandler) ExportContainers(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "fields": forms.FieldErrors(err)})
		return
	}

	rows, err := h.Service.ExportContainers(c.Request.Context(), identity, query)
	if err != nil {
		h.respondError(c, err, "Unable to export containers")
		return
	}

	f, err := BuildExport(rows)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to export containers", "details": err.Error()})
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("containers-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		h.Logger.Error("Failed to write export", zap.Error(err))
	}
}

func (h *ContainerHandler) GetContainer(c *gin.Context) {
	identity, _ := session.FromContext(c)

	detail, err := h.Service.GetContainerDetail(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Unable to retrieve container")
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *ContainerHandler) CreateContainer(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var req CreateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}
	if violations := req.Validate(); !violations.Empty() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": violations})
		return
	}

	container, err := h.Service.CreateContainer(c.Request.Context(), identity, req)
	if err != nil {
		var linkErr *LinkError
		if errors.As(err, &linkErr) {
			h.respondLinkError(c, linkErr)
			return
		}
		if req.NewClient != nil && clients.RespondDuplicate(c, err, "new_client.") {
			return
		}
		h.respondError(c, err, "Could not create container")
		return
	}

	c.JSON(http.StatusCreated, container)
}

func (h *ContainerHandler) UpdateContainer(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var req UpdateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	container, err := h.Service.UpdateContainer(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "Could not update container")
		return
	}

	c.JSON(http.StatusOK, container)
}

func (h *ContainerHandler) RemoveContainer(c *gin.Context) {
	identity, _ := session.FromContext(c)

	if err := h.Service.RemoveContainer(c.Request.Context(), identity, c.Param("id")); err != nil {
		h.respondError(c, err, "Could not delete container")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Container deleted successfully"})
}

// respondLinkError reports a failed second write of a create-then-link
// request. The stored client id is always part of the payload.
func (h *ContainerHandler) respondLinkError(c *gin.Context, linkErr *LinkError) {
	if violations, ok := forms.ConflictViolations(linkErr.Err, duplicateFields); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     "Client was created but the container already exists",
			"fields":    violations,
			"client_id": linkErr.ClientID,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":     "Client was created but the container could not be saved",
		"details":   linkErr.Err.Error(),
		"client_id": linkErr.ClientID,
	})
}

func (h *ContainerHandler) respondError(c *gin.Context, err error, message string) {
	if violations, ok := forms.ConflictViolations(err, duplicateFields); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Container already exists", "fields": violations})
		return
	}

	var validationErr *forms.ValidationError
	var fkErr *custom_error.ForeignKeyViolationError
	var checkErr *custom_error.CheckViolationError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": validationErr.Violations})
	case errors.Is(err, access.ErrNoAssignedClient):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Your account is not linked to a client yet"})
	case errors.Is(err, custom_error.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Container not found", "redirect": listRoute})
	case errors.Is(err, custom_error.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied", "redirect": listRoute})
	case errors.As(err, &fkErr), errors.As(err, &checkErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
