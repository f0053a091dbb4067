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

const returnRemarks = "Material devuelto al origen"

// Return registra la devolución de material de la obra a su origen (RETURN).
// Descuenta del saldo igual que un consumo pero no es un uso en obra.
func (uc *StockLedgerUseCase) Return(ctx context.Context, actorID string, in dto.ReturnRequest) (*dto.ReturnResponse, error) {
	if in.ProjectID == "" || in.ItemID == "" {
		return nil, domain.Invalid("project_id e item_id son requeridos")
	}
	if !in.Qty.IsPositive() {
		return nil, domain.Invalid("qty debe ser mayor que cero")
	}
	if err := inventory.CheckScale(in.Qty); err != nil {
		return nil, err
	}
	if _, err := uc.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, fmt.Errorf("obtener item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, in.ItemID)
	}

	now := uc.now()
	remarks := in.Remarks
	if remarks == "" {
		remarks = returnRemarks
	}
	entry := &entity.LedgerEntry{
		ID:              uuid.New().String(),
		ItemID:          in.ItemID,
		ProjectID:       in.ProjectID,
		Type:            entity.TransactionReturn,
		ReferenceNumber: fmt.Sprintf("RET-%d", now.UnixMilli()),
		QtyIn:           decimal.Zero,
		QtyOut:          in.Qty,
		Remarks:         remarks,
		ActorID:         actorID,
		CreatedAt:       now,
	}
	entry.ReferenceID = entry.ID

	var bal *entity.Balance
	err = uc.withKeys(ctx, []string{entity.StockKey(in.ProjectID, in.ItemID)}, func(repos TxRepos) error {
		var err error
		bal, err = Adjust(ctx, repos.Balances, in.ProjectID, in.ItemID, unitOr(in.Unit, item), in.Qty.Neg(), now)
		if err != nil {
			return err
		}
		entry.BalanceQty = bal.Qty
		return repos.Ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("item_id", in.ItemID).
		Str("project_id", in.ProjectID).
		Str("qty", in.Qty.String()).
		Msg("devolución registrada")

	return &dto.ReturnResponse{
		Balance: toBalanceResponse(bal),
		Entry:   toLedgerResponse(entry, ""),
	}, nil
}
