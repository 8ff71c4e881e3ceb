package session

import (
	"github.com/Marcelo-Rosas/container-storage/pkg/roles"

	"github.com/gin-gonic/gin"
)

const ContextKey = "identity"

// Identity is the authenticated caller. It is built once per request by the
// JWT middleware and passed explicitly to services.
type Identity struct {
	SessionID string     `json:"session_id"`
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Role      roles.Role `json:"role"`
	ClientID  string     `json:"client_id,omitempty"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == roles.Admin
}

func (i Identity) IsRestricted() bool {
	return i.Role.IsRestricted()
}

func FromContext(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(ContextKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

func SetContext(c *gin.Context, identity Identity) {
	c.Set(ContextKey, identity)
	c.Set("userID", identity.UserID)
	c.Set("role", identity.Role.String())
}
