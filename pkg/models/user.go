package models

import (
	"time"

	"github.com/Marcelo-Rosas/container-storage/pkg/roles"
)

type User struct {
	ID            string     `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	Fullname      *string    `json:"fullname" db:"fullname"`
	PasswordHash  *string    `json:"-" db:"password_hash"`
	Role          roles.Role `json:"role" db:"role"`
	ClientID      *string    `json:"client_id" db:"client_id"`
	OAuthProvider *string    `json:"oauth_provider,omitempty" db:"oauth_provider"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

type UpdateUserRequest struct {
	Fullname *string     `json:"fullname"`
	Role     *roles.Role `json:"role"`
	ClientID *string     `json:"client_id" binding:"omitempty,uuid"`
}

type UserChanges struct {
	Fullname *string
	Role     *string
	ClientID *string
}

func (u *UserChanges) HasChanges() bool {
	return u.Fullname != nil || u.Role != nil || u.ClientID != nil
}
