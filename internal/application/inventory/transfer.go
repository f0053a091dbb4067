package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/inventory"
)

// Transfer traslada qty de un item entre dos obras. Débito en origen y crédito en destino
// van en la misma transacción, con ambas llaves tomadas en orden; se registra una sola
// entrada TRANSFER con las dos obras y los dos saldos resultantes.
func (uc *StockLedgerUseCase) Transfer(ctx context.Context, actorID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.FromProjectID == "" || in.ToProjectID == "" || in.ItemID == "" {
		return nil, domain.Invalid("from_project_id, to_project_id e item_id son requeridos")
	}
	if in.FromProjectID == in.ToProjectID {
		return nil, domain.Invalid("la obra origen y destino deben ser distintas")
	}
	if !in.Qty.IsPositive() {
		return nil, domain.Invalid("qty debe ser mayor que cero")
	}
	if err := inventory.CheckScale(in.Qty); err != nil {
		return nil, err
	}
	if _, err := uc.requireProject(ctx, in.FromProjectID); err != nil {
		return nil, err
	}
	if _, err := uc.requireProject(ctx, in.ToProjectID); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, fmt.Errorf("obtener item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, in.ItemID)
	}

	keys := []string{
		entity.StockKey(in.FromProjectID, in.ItemID),
		entity.StockKey(in.ToProjectID, in.ItemID),
	}
	now := uc.now()
	entry := &entity.LedgerEntry{
		ID:              uuid.New().String(),
		ItemID:          in.ItemID,
		ProjectID:       in.FromProjectID,
		ToProjectID:     in.ToProjectID,
		Type:            entity.TransactionTransfer,
		ReferenceNumber: fmt.Sprintf("TRF-%d", now.UnixMilli()),
		QtyIn:           decimal.Zero,
		QtyOut:          in.Qty,
		Remarks:         in.Remarks,
		ActorID:         actorID,
		CreatedAt:       now,
	}
	entry.ReferenceID = entry.ID

	var from, to *entity.Balance
	err = uc.withKeys(ctx, keys, func(repos TxRepos) error {
		unit := in.Unit
		var err error
		from, err = Adjust(ctx, repos.Balances, in.FromProjectID, in.ItemID, unitOr(unit, item), in.Qty.Neg(), now)
		if err != nil {
			return err
		}
		if unit == "" {
			unit = from.Unit
		}
		to, err = Adjust(ctx, repos.Balances, in.ToProjectID, in.ItemID, unitOr(unit, item), in.Qty, now)
		if err != nil {
			return err
		}
		entry.BalanceQty = from.Qty
		entry.ToBalanceQty = to.Qty
		return repos.Ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("item_id", in.ItemID).
		Str("from_project_id", in.FromProjectID).
		Str("to_project_id", in.ToProjectID).
		Str("qty", in.Qty.String()).
		Msg("traslado registrado")

	return &dto.TransferResponse{
		FromBalance: toBalanceResponse(from),
		ToBalance:   toBalanceResponse(to),
		Entry:       toLedgerResponse(entry, ""),
	}, nil
}
