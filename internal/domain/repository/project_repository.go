package repository

import (
	"context"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para obras (DIP).
// GetByID devuelve (nil, nil) cuando la obra no existe.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
}
