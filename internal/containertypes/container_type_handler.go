package containertypes

import (
	"errors"
	"net/http"

	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/gin-gonic/gin"
)

type ContainerTypeHandler struct {
	Repository ContainerTypeRepository
}

func NewContainerTypeHandler(r ContainerTypeRepository) *ContainerTypeHandler {
	return &ContainerTypeHandler{Repository: r}
}

func (h *ContainerTypeHandler) GetContainerTypes(c *gin.Context) {
	containerTypes, err := h.Repository.GetContainerTypes(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list container types", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, containerTypes)
}

func (h *ContainerTypeHandler) CreateContainerType(c *gin.Context) {
	var containerType models.ContainerType
	if err := c.ShouldBindJSON(&containerType); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	err := h.Repository.PersistContainerType(c.Request.Context(), &containerType)
	var uniqueErr *custom_error.UniqueViolationError
	if errors.As(err, &uniqueErr) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Container type already exists", "fields": forms.Violations{"code": "already exists"}})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert container type", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, containerType)
}
