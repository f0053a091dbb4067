package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// BalanceRepository define el puerto para leer/actualizar saldos por obra+item.
// Usado dentro de transacciones para garantizar consistencia.
type BalanceRepository interface {
	// GetForUpdate devuelve el saldo bloqueado para escritura; si no existe devuelve qty 0.
	GetForUpdate(ctx context.Context, projectID, itemID string) (*entity.Balance, error)
	Upsert(ctx context.Context, balance *entity.Balance) error
	ListByProject(ctx context.Context, projectID string) ([]*entity.Balance, error)
	// AddDamaged incrementa el contador de dañados del item.
	AddDamaged(ctx context.Context, itemID string, qty decimal.Decimal) error
	DamagedByItems(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error)
}
