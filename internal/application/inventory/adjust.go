package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/inventory"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

// Adjust es el único punto por el que cambia la cantidad de un saldo.
// Carga (o crea en cero) el saldo de (projectID, itemID), suma qtyChange y persiste.
// Si el resultado fuera negativo devuelve ErrInsufficientStock sin escribir nada.
// unit solo se guarda si el saldo aún no tiene unidad.
//
// El llamador debe tener la llave StockKey(projectID, itemID) y estar dentro de una transacción.
func Adjust(
	ctx context.Context,
	balances repository.BalanceRepository,
	projectID, itemID, unit string,
	qtyChange decimal.Decimal,
	now time.Time,
) (*entity.Balance, error) {
	if projectID == "" || itemID == "" || qtyChange.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if err := inventory.CheckScale(qtyChange); err != nil {
		return nil, err
	}
	bal, err := balances.GetForUpdate(ctx, projectID, itemID)
	if err != nil {
		return nil, err
	}
	next, err := inventory.ApplyDelta(bal.Qty, qtyChange)
	if err != nil {
		return nil, err
	}
	updated := *bal
	updated.Qty = next
	if updated.Unit == "" {
		updated.Unit = unit
	}
	updated.UpdatedAt = now
	if err := balances.Upsert(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
