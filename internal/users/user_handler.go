package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/gin-gonic/gin"
)

type SessionRevoker interface {
	DeleteUserSessions(ctx context.Context, userID string) error
}

type UsersHandler struct {
	Repository UserRepository
	Sessions   SessionRevoker
}

func NewHandler(r UserRepository, sessions SessionRevoker) *UsersHandler {
	return &UsersHandler{
		Repository: r,
		Sessions:   sessions,
	}
}

// UpdateUser changes role, fullname or the assigned client. Role and client
// changes end the user's sessions so the next sign-in carries them.
func (h *UsersHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	userID := c.Param("id")
	user, err := h.Repository.GetUser(c.Request.Context(), userID)
	if errors.Is(err, custom_error.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "code": "USER_NOT_FOUND"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user", "details": err.Error()})
		return
	}

	changes := &models.UserChanges{}

	if req.Fullname != nil {
		changes.Fullname = req.Fullname
	}

	if req.Role != nil && *req.Role != user.Role {
		if !req.Role.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.Violations{"role": "must be one of client, operator, admin"}})
			return
		}
		role := string(*req.Role)
		changes.Role = &role
	}

	if req.ClientID != nil && (user.ClientID == nil || *req.ClientID != *user.ClientID) {
		clientID := *req.ClientID
		changes.ClientID = &clientID
	}

	if !changes.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(c.Request.Context(), userID, changes); err != nil {
		var fkErr *custom_error.ForeignKeyViolationError
		if errors.As(err, &fkErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.Violations{"client_id": "does not exist"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	if changes.Role != nil || changes.ClientID != nil {
		if err := h.Sessions.DeleteUserSessions(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User updated but sessions could not be revoked", "details": err.Error()})
			return
		}
	}

	updatedUser, err := h.Repository.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updatedUser)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")

	if !h.isAllowed(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this resource"})
		return
	}

	user, err := h.Repository.GetUser(c.Request.Context(), userID)
	if errors.Is(err, custom_error.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "code": "USER_NOT_FOUND"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// isAllowed lets users read themselves and admins read anyone.
func (h *UsersHandler) isAllowed(c *gin.Context, userID string) bool {
	identity, ok := session.FromContext(c)
	if !ok || identity.UserID == "" {
		return false
	}

	return identity.UserID == userID || identity.IsAdmin()
}
