package inventory

import (
	"context"

	"github.com/Marcelo-Rosas/container-storage/internal/session"
)

// ContainerAccess checks that identity may see the container before any of
// its inventory is read or changed. It returns ErrNotFound or ErrForbidden.
type ContainerAccess interface {
	AuthorizeContainer(ctx context.Context, identity session.Identity, containerID string) error
}
