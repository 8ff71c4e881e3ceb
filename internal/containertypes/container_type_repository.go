package containertypes

import (
	"context"
	"fmt"
	"strings"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ContainerTypeRepository interface {
	GetContainerTypes(ctx context.Context) ([]models.ContainerType, error)
	GetContainerType(ctx context.Context, code string) (*models.ContainerType, error)
	PersistContainerType(ctx context.Context, containerType *models.ContainerType) error
}

type containerTypeRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ContainerTypeRepository {
	return &containerTypeRepository{repository: r}
}

func (r *containerTypeRepository) GetContainerTypes(ctx context.Context) ([]models.ContainerType, error) {
	containerTypes := []models.ContainerType{}
	query := r.repository.GoquDBWrapper.
		Select("code", "name", "default_base_cost").
		From("container_types").
		Order(goqu.C("code").Asc())

	if err := query.ScanStructsContext(ctx, &containerTypes); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return containerTypes, nil
}

func (r *containerTypeRepository) GetContainerType(ctx context.Context, code string) (*models.ContainerType, error) {
	var containerType models.ContainerType
	query := r.repository.GoquDBWrapper.
		Select("code", "name", "default_base_cost").
		From("container_types").
		Where(goqu.Ex{"code": strings.ToUpper(code)})

	found, err := query.ScanStructContext(ctx, &containerType)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, custom_error.ErrNotFound
	}

	return &containerType, nil
}

func (r *containerTypeRepository) PersistContainerType(ctx context.Context, containerType *models.ContainerType) error {
	containerType.Code = strings.ToUpper(strings.TrimSpace(containerType.Code))
	query := r.repository.GoquDBWrapper.Insert("container_types").
		Rows(goqu.Record{
			"code":              containerType.Code,
			"name":              strings.TrimSpace(containerType.Name),
			"default_base_cost": containerType.DefaultBaseCost,
		})

	if _, err := query.Executor().ExecContext(ctx); err != nil {
		return custom_error.FromDB("Failed to insert container type", err)
	}

	return nil
}
