package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type UserRepository interface {
	PersistUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, changes *models.UserChanges) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

var userColumns = []interface{}{
	"id", "email", "fullname", "password_hash", "role", "client_id", "oauth_provider", "created_at",
}

func (r *userRepositoryImpl) PersistUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"email":          user.Email,
			"fullname":       user.Fullname,
			"password_hash":  user.PasswordHash,
			"role":           user.Role,
			"client_id":      user.ClientID,
			"oauth_provider": user.OAuthProvider,
		}).
		Returning("id", "created_at")

	var inserted struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if _, err := query.Executor().ScanStructContext(ctx, &inserted); err != nil {
		return custom_error.FromDB("Failed to insert user", err)
	}

	user.ID = inserted.ID
	user.CreatedAt = inserted.CreatedAt
	return nil
}

func (r *userRepositoryImpl) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	query := r.repository.GoquDBWrapper.Select(userColumns...).
		From("users").
		Order(goqu.C("email").Asc())

	if err := query.ScanStructsContext(ctx, &users); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return users, nil
}

func (r *userRepositoryImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !repository.IsValidID(id) {
		return nil, custom_error.ErrNotFound
	}
	return r.findOne(ctx, goqu.Ex{"id": id})
}

func (r *userRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, goqu.Ex{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepositoryImpl) findOne(ctx context.Context, where goqu.Ex) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.Select(userColumns...).
		From("users").
		Where(where)

	found, err := query.ScanStructContext(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, custom_error.ErrNotFound
	}

	return &user, nil
}

// UpdateUser applies changes. An empty client id removes the assignment.
func (r *userRepositoryImpl) UpdateUser(ctx context.Context, id string, changes *models.UserChanges) error {
	updates := goqu.Record{}
	if changes.Fullname != nil {
		updates["fullname"] = *changes.Fullname
	}
	if changes.Role != nil {
		updates["role"] = *changes.Role
	}
	if changes.ClientID != nil {
		if *changes.ClientID == "" {
			updates["client_id"] = nil
		} else {
			updates["client_id"] = *changes.ClientID
		}
	}
	if len(updates) == 0 {
		return nil
	}

	return r.update(ctx, id, updates)
}

func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.update(ctx, id, goqu.Record{"password_hash": passwordHash})
}

func (r *userRepositoryImpl) update(ctx context.Context, id string, updates goqu.Record) error {
	result, err := r.repository.GoquDBWrapper.Update("users").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB("Failed to update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.ErrNotFound
	}

	return nil
}
