package repository

import (
	"context"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// LedgerRepository es el kardex: solo permite agregar y consultar, nunca actualizar ni borrar.
// Los listados vienen del más reciente al más antiguo.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// ListByItem filtra por obra (origen, destino o única parte) si projectID no es vacío.
	ListByItem(ctx context.Context, itemID, projectID string, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*entity.LedgerEntry, error)
}
