package clients

import (
	"errors"
	"net/http"

	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	Service *ClientService
}

func NewClientHandler(s *ClientService) *ClientHandler {
	return &ClientHandler{Service: s}
}

func (h *ClientHandler) GetClients(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "fields": forms.FieldErrors(err)})
		return
	}

	page, err := h.Service.ListClients(c.Request.Context(), identity, query)
	if err != nil {
		respondError(c, err, "Unable to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	identity, _ := session.FromContext(c)

	client, err := h.Service.GetClient(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err, "Unable to retrieve client")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}
	if violations := req.Validate(); !violations.Empty() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": violations})
		return
	}

	client, err := h.Service.CreateClient(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Could not create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	identity, _ := session.FromContext(c)

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}
	if violations := req.Validate(); !violations.Empty() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": violations})
		return
	}

	client, err := h.Service.UpdateClient(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Could not update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// RespondDuplicate writes the 409 for a duplicate tax id, with field names
// under prefix when the client was nested in another payload. It reports
// false when err is something else.
func RespondDuplicate(c *gin.Context, err error, prefix string) bool {
	violations, ok := forms.ConflictViolations(err, duplicateFields)
	if !ok {
		return false
	}

	fields := forms.Violations{}
	for field, message := range violations {
		fields[prefix+field] = message
	}
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Client already exists", "fields": fields})
	return true
}

func respondError(c *gin.Context, err error, message string) {
	if RespondDuplicate(c, err, "") {
		return
	}

	switch {
	case errors.Is(err, custom_error.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Client not found"})
	case errors.Is(err, custom_error.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not allowed to change this client"})
	case errors.Is(err, access.ErrNoAssignedClient):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Your account is not linked to a client yet"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
