package repository

import (
	"context"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// MaterialRequestFilter criterios de listado de solicitudes; campos vacíos no filtran.
type MaterialRequestFilter struct {
	ProjectID   string
	Status      string
	RequestedBy string
	Limit       int
	Offset      int
}

// MaterialRequestRepository define el puerto de persistencia de solicitudes de material.
type MaterialRequestRepository interface {
	Create(ctx context.Context, mr *entity.MaterialRequest) error
	GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error)
	// GetForUpdate bloquea la solicitud para actualizar sus contadores acumulados.
	GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error)
	Update(ctx context.Context, mr *entity.MaterialRequest) error
	List(ctx context.Context, filter MaterialRequestFilter) ([]*entity.MaterialRequest, error)
}
