// Package access holds the row visibility rules. The same predicates are
// declared as row-level security policies in the migrations; this package
// applies them in the query layer so the API does not depend on the database
// enforcing them.
package access

import (
	"errors"

	"github.com/Marcelo-Rosas/container-storage/internal/session"
	"github.com/Marcelo-Rosas/container-storage/pkg/roles"

	"github.com/doug-martin/goqu/v9"
)

var ErrNoAssignedClient = errors.New("identity is restricted to a client but has none assigned")

// Scope is a set of mandatory equality filters derived from an identity.
type Scope map[string]interface{}

func (s Scope) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}
	for key, value := range s {
		if alias, ok := aliases[key]; ok {
			conditions[alias] = value
		} else {
			conditions[key] = value
		}
	}
	return conditions
}

func (s Scope) IsEmpty() bool {
	return len(s) == 0
}

type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// ContainerScope restricts restricted identities to their assigned client.
// Staff roles see every container.
func (p *Policy) ContainerScope(identity session.Identity) (Scope, error) {
	if !identity.IsRestricted() {
		return Scope{}, nil
	}
	if identity.ClientID == "" {
		return nil, ErrNoAssignedClient
	}
	return Scope{"client_id": identity.ClientID}, nil
}

// ClientScope: admins see every client, operators the clients they own and
// restricted identities only their assigned client.
func (p *Policy) ClientScope(identity session.Identity) (Scope, error) {
	switch {
	case identity.IsAdmin():
		return Scope{}, nil
	case identity.IsRestricted():
		if identity.ClientID == "" {
			return nil, ErrNoAssignedClient
		}
		return Scope{"id": identity.ClientID}, nil
	default:
		return Scope{"owner_id": identity.UserID}, nil
	}
}

// CanViewContainer is the post-fetch guard for a single container row.
func (p *Policy) CanViewContainer(identity session.Identity, containerClientID string) bool {
	if !identity.IsRestricted() {
		return true
	}
	return identity.ClientID != "" && identity.ClientID == containerClientID
}

func (p *Policy) CanWriteClient(identity session.Identity, ownerID string) bool {
	return identity.IsAdmin() || (identity.Role.HasPermission(roles.Operator) && identity.UserID == ownerID)
}

func (p *Policy) CanManageContainers(identity session.Identity) bool {
	return identity.Role.HasPermission(roles.Operator)
}
