package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	Service *InventoryService
}

func NewInventoryHandler(s *InventoryService) *InventoryHandler {
	return &InventoryHandler{Service: s}
}

func (h *InventoryHandler) GetContainerItems(c *gin.Context) {
	identity, _ := session.FromContext(c)

	items, err := h.Service.GetContainerItems(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err, "Could not list inventory")
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) AddItem(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	item, err := h.Service.AddItem(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Could not add inventory item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) RemoveItem(c *gin.Context) {
	identity, _ := session.FromContext(c)

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid inventory item ID"})
		return
	}

	if err := h.Service.RemoveItem(c.Request.Context(), identity, c.Param("id"), itemID); err != nil {
		respondError(c, err, "Could not remove inventory item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item removed successfully"})
}

func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, custom_error.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found", "redirect": "/containers"})
	case errors.Is(err, custom_error.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied", "redirect": "/containers"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
