package events

import (
	"errors"
	"net/http"

	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/metadata"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	Service *EventService
}

func NewEventHandler(s *EventService) *EventHandler {
	return &EventHandler{Service: s}
}

func (h *EventHandler) GetContainerEvents(c *gin.Context) {
	identity, _ := session.FromContext(c)

	events, err := h.Service.GetContainerEvents(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err, "Could not list events")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEventTypes(c *gin.Context) {
	c.JSON(http.StatusOK, metadata.SuggestedEventTypes())
}

func (h *EventHandler) RecordEvent(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	event, err := h.Service.RecordEvent(c.Request.Context(), identity, c.Param("id"), req)
	if errors.Is(err, metadata.ErrInvalidEventType) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.Violations{"event_type": err.Error()}})
		return
	} else if err != nil {
		respondError(c, err, "Could not record event")
		return
	}

	c.JSON(http.StatusCreated, event)
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
