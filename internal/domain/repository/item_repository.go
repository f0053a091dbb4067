package repository

import (
	"context"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia del catálogo de items (DIP).
// GetByID devuelve (nil, nil) cuando el item no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}
