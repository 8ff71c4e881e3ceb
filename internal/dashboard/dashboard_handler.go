package dashboard

import (
	"errors"
	"net/http"

	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/session"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Service *DashboardService
}

func NewDashboardHandler(s *DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	identity, _ := session.FromContext(c)

	summary, err := h.Service.GetSummary(c.Request.Context(), identity)
	if errors.Is(err, access.ErrNoAssignedClient) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Your account is not linked to a client yet"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
