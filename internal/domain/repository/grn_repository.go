package repository

import (
	"context"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// GRNFilter criterios de listado de notas de recepción.
type GRNFilter struct {
	ProjectID         string
	MaterialRequestID string
	Limit             int
	Offset            int
}

// GRNRepository define el puerto de persistencia de notas de recepción.
type GRNRepository interface {
	Create(ctx context.Context, grn *entity.GRN) error
	GetByID(ctx context.Context, id string) (*entity.GRN, error)
	List(ctx context.Context, filter GRNFilter) ([]*entity.GRN, error)
}
