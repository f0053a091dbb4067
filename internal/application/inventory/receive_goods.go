package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/inventory"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

const grnRemarks = "Material recibido vía GRN"

// ReceiveGoods registra una nota de recepción contra una solicitud de material.
//
// Por cada línea suma al saldo de la obra la cantidad aceptada (recibido - dañado, mínimo 0),
// incrementa el contador de dañados del item, acumula los contadores de la solicitud y agrega
// una entrada GRN al kardex. Al final recalcula el estado de la solicitud (ordered/completed).
func (uc *StockLedgerUseCase) ReceiveGoods(ctx context.Context, actorID string, in dto.ReceiveGoodsRequest) (*dto.GRNResponse, error) {
	if in.MaterialRequestID == "" || len(in.Items) == 0 {
		return nil, domain.Invalid("material_request_id e items son requeridos")
	}
	var dispatch *time.Time
	if in.DispatchDate != "" {
		t, err := time.Parse("2006-01-02", in.DispatchDate)
		if err != nil {
			return nil, domain.Invalid("dispatch_date debe tener formato YYYY-MM-DD")
		}
		dispatch = &t
	}
	itemIDs := make([]string, len(in.Items))
	for i, l := range in.Items {
		if l.ItemID == "" {
			return nil, domain.NewLineError(i, "", domain.Invalid("item_id es requerido"))
		}
		for _, q := range []decimal.Decimal{l.OrderedQty, l.ReceivedQty, l.DamagedQty, l.ShortQty, l.ExcessQty} {
			if q.IsNegative() {
				return nil, domain.NewLineError(i, l.ItemID, domain.Invalid("las cantidades no pueden ser negativas"))
			}
			if err := inventory.CheckScale(q); err != nil {
				return nil, domain.NewLineError(i, l.ItemID, err)
			}
		}
		itemIDs[i] = l.ItemID
	}

	mr, err := uc.materialRequests.GetByID(ctx, in.MaterialRequestID)
	if err != nil {
		return nil, fmt.Errorf("obtener solicitud: %w", err)
	}
	if mr == nil {
		return nil, fmt.Errorf("%w: solicitud de material %s", domain.ErrNotFound, in.MaterialRequestID)
	}
	items, err := uc.requireItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	keys := []string{entity.MaterialRequestKey(mr.ID)}
	for _, id := range itemIDs {
		keys = append(keys, entity.StockKey(mr.ProjectID, id))
	}

	now := uc.now()
	poNumber := in.PONumber
	if poNumber == "" {
		poNumber = mr.PONumber
	}
	grn := &entity.GRN{
		ID:                uuid.New().String(),
		MaterialRequestID: mr.ID,
		ProjectID:         mr.ProjectID,
		PONumber:          poNumber,
		DeliveryChallan:   in.DeliveryChallan,
		DispatchDate:      dispatch,
		VehicleNumber:     in.VehicleNumber,
		DriverName:        in.DriverName,
		ReceivedBy:        actorID,
		Remarks:           in.Remarks,
		CreatedAt:         now,
	}

	var (
		entries []*entity.LedgerEntry
		status  string
	)
	err = uc.withKeys(ctx, keys, func(repos TxRepos) error {
		entries = entries[:0]
		grn.Items = grn.Items[:0]

		locked, err := repos.MaterialRequests.GetForUpdate(ctx, mr.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}

		received := make(map[string]bool, len(in.Items))
		for i, l := range in.Items {
			unit := unitOr(l.Unit, items[l.ItemID])
			line := entity.GRNLine{
				ItemID:      l.ItemID,
				Unit:        unit,
				OrderedQty:  l.OrderedQty,
				ReceivedQty: l.ReceivedQty,
				DamagedQty:  l.DamagedQty,
				ShortQty:    l.ShortQty,
				ExcessQty:   l.ExcessQty,
				AcceptedQty: inventory.AcceptedQty(l.ReceivedQty, l.DamagedQty),
				Remarks:     l.Remarks,
			}

			var bal *entity.Balance
			if line.AcceptedQty.IsPositive() {
				bal, err = Adjust(ctx, repos.Balances, mr.ProjectID, l.ItemID, unit, line.AcceptedQty, now)
			} else {
				bal, err = touch(ctx, repos.Balances, mr.ProjectID, l.ItemID, unit, now)
			}
			if err != nil {
				return domain.NewLineError(i, l.ItemID, err)
			}
			if l.DamagedQty.IsPositive() {
				if err := repos.Balances.AddDamaged(ctx, l.ItemID, l.DamagedQty); err != nil {
					return err
				}
			}
			if mrLine := locked.Line(l.ItemID); mrLine != nil {
				inventory.ApplyReceipt(mrLine, line)
			}
			received[l.ItemID] = true

			remarks := l.Remarks
			if remarks == "" {
				remarks = grnRemarks
			}
			entry := &entity.LedgerEntry{
				ID:              uuid.New().String(),
				ItemID:          l.ItemID,
				ProjectID:       mr.ProjectID,
				Type:            entity.TransactionGRN,
				ReferenceID:     grn.ID,
				ReferenceNumber: grn.PONumber,
				QtyIn:           line.AcceptedQty,
				QtyOut:          decimal.Zero,
				BalanceQty:      bal.Qty,
				Remarks:         remarks,
				ActorID:         actorID,
				CreatedAt:       now,
			}
			if err := repos.Ledger.Append(ctx, entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			grn.Items = append(grn.Items, line)
		}

		locked.Status = inventory.ReceiptStatus(locked, received)
		locked.UpdatedAt = now
		if err := repos.MaterialRequests.Update(ctx, locked); err != nil {
			return err
		}
		status = locked.Status
		return repos.GRNs.Create(ctx, grn)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("grn_id", grn.ID).
		Str("material_request_id", mr.ID).
		Str("project_id", mr.ProjectID).
		Str("mr_status", status).
		Int("lines", len(grn.Items)).
		Msg("recepción registrada")

	resp := toGRNResponse(grn)
	resp.MaterialRequestStatus = status
	resp.Entries = toLedgerResponses(entries, "")
	return resp, nil
}

// GetGRN obtiene una nota de recepción.
func (uc *StockLedgerUseCase) GetGRN(ctx context.Context, id string) (*dto.GRNResponse, error) {
	grn, err := uc.grns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, nil
	}
	return toGRNResponse(grn), nil
}

// ListGRNs lista notas de recepción por obra y/o solicitud.
func (uc *StockLedgerUseCase) ListGRNs(ctx context.Context, projectID, materialRequestID string, limit, offset int) (*dto.GRNListResponse, error) {
	list, err := uc.grns.List(ctx, repository.GRNFilter{
		ProjectID:         projectID,
		MaterialRequestID: materialRequestID,
		Limit:             limit,
		Offset:            offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.GRNResponse, 0, len(list))
	for _, g := range list {
		items = append(items, *toGRNResponse(g))
	}
	return &dto.GRNListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toGRNResponse(g *entity.GRN) *dto.GRNResponse {
	lines := make([]dto.GRNLineResponse, 0, len(g.Items))
	for _, l := range g.Items {
		lines = append(lines, dto.GRNLineResponse{
			ItemID:      l.ItemID,
			Unit:        l.Unit,
			OrderedQty:  l.OrderedQty,
			ReceivedQty: l.ReceivedQty,
			DamagedQty:  l.DamagedQty,
			ShortQty:    l.ShortQty,
			ExcessQty:   l.ExcessQty,
			AcceptedQty: l.AcceptedQty,
			Remarks:     l.Remarks,
		})
	}
	return &dto.GRNResponse{
		ID:                g.ID,
		MaterialRequestID: g.MaterialRequestID,
		ProjectID:         g.ProjectID,
		PONumber:          g.PONumber,
		DeliveryChallan:   g.DeliveryChallan,
		DispatchDate:      g.DispatchDate,
		VehicleNumber:     g.VehicleNumber,
		DriverName:        g.DriverName,
		ReceivedBy:        g.ReceivedBy,
		Remarks:           g.Remarks,
		Items:             lines,
		CreatedAt:         g.CreatedAt,
	}
}
