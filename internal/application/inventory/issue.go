package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/inventory"
)

// Issue registra una salida de material de la obra (ISSUE). El lote es todo-o-nada.
func (uc *StockLedgerUseCase) Issue(ctx context.Context, actorID string, in dto.IssueRequest) (*dto.StockIssueResponse, error) {
	return uc.deduct(ctx, actorID, entity.TransactionIssue, in)
}

// Consume registra el consumo de material en la obra (CONSUMPTION). El lote es todo-o-nada.
func (uc *StockLedgerUseCase) Consume(ctx context.Context, actorID string, in dto.IssueRequest) (*dto.StockIssueResponse, error) {
	return uc.deduct(ctx, actorID, entity.TransactionConsumption, in)
}

// deduct descuenta cada línea del saldo de la obra y agrega una entrada al kardex por línea.
// Si una línea no tiene saldo suficiente falla con ErrInsufficientStock envuelto en
// domain.LineError y no se aplica ninguna.
func (uc *StockLedgerUseCase) deduct(ctx context.Context, actorID string, typ entity.TransactionType, in dto.IssueRequest) (*dto.StockIssueResponse, error) {
	if in.ProjectID == "" || len(in.Items) == 0 {
		return nil, domain.Invalid("project_id e items son requeridos")
	}
	itemIDs := make([]string, len(in.Items))
	for i, l := range in.Items {
		if l.ItemID == "" {
			return nil, domain.NewLineError(i, "", domain.Invalid("item_id es requerido"))
		}
		if !l.Qty.IsPositive() {
			return nil, domain.NewLineError(i, l.ItemID, domain.Invalid("qty debe ser mayor que cero"))
		}
		if err := inventory.CheckScale(l.Qty); err != nil {
			return nil, domain.NewLineError(i, l.ItemID, err)
		}
		itemIDs[i] = l.ItemID
	}
	if _, err := uc.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	items, err := uc.requireItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		keys = append(keys, entity.StockKey(in.ProjectID, id))
	}

	now := uc.now()
	doc := &entity.StockIssue{
		ID:        uuid.New().String(),
		ProjectID: in.ProjectID,
		Type:      typ,
		IssuedBy:  actorID,
		Remarks:   in.Remarks,
		CreatedAt: now,
	}
	doc.ReferenceNumber = issueReference(typ, doc.ID, now.UnixMilli())

	var entries []*entity.LedgerEntry
	err = uc.withKeys(ctx, keys, func(repos TxRepos) error {
		entries = entries[:0]
		doc.Items = doc.Items[:0]
		for i, l := range in.Items {
			unit := unitOr(l.Unit, items[l.ItemID])
			bal, err := Adjust(ctx, repos.Balances, in.ProjectID, l.ItemID, unit, l.Qty.Neg(), now)
			if err != nil {
				return domain.NewLineError(i, l.ItemID, err)
			}
			remarks := l.Remarks
			if remarks == "" {
				remarks = in.Remarks
			}
			entry := &entity.LedgerEntry{
				ID:              uuid.New().String(),
				ItemID:          l.ItemID,
				ProjectID:       in.ProjectID,
				Type:            typ,
				ReferenceID:     doc.ID,
				ReferenceNumber: doc.ReferenceNumber,
				QtyIn:           decimal.Zero,
				QtyOut:          l.Qty,
				BalanceQty:      bal.Qty,
				Remarks:         remarks,
				ActorID:         actorID,
				CreatedAt:       now,
			}
			if err := repos.Ledger.Append(ctx, entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			doc.Items = append(doc.Items, entity.StockIssueLine{
				ItemID:  l.ItemID,
				Unit:    unit,
				Qty:     l.Qty,
				Remarks: l.Remarks,
			})
		}
		return repos.Issues.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("type", string(typ)).
		Str("project_id", in.ProjectID).
		Str("reference", doc.ReferenceNumber).
		Int("lines", len(doc.Items)).
		Msg("salida registrada")

	resp := toStockIssueResponse(doc)
	resp.Entries = toLedgerResponses(entries, "")
	return resp, nil
}

// issueReference arma el número visible del documento: ISS-<id corto> para salidas,
// CONS-<unix ms> para consumos.
func issueReference(typ entity.TransactionType, id string, unixMilli int64) string {
	if typ == entity.TransactionConsumption {
		return fmt.Sprintf("CONS-%d", unixMilli)
	}
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return "ISS-" + strings.ToUpper(short)
}

func toStockIssueResponse(s *entity.StockIssue) *dto.StockIssueResponse {
	lines := make([]dto.StockIssueLineResponse, 0, len(s.Items))
	for _, l := range s.Items {
		lines = append(lines, dto.StockIssueLineResponse{
			ItemID:  l.ItemID,
			Unit:    l.Unit,
			Qty:     l.Qty,
			Remarks: l.Remarks,
		})
	}
	return &dto.StockIssueResponse{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		Type:            string(s.Type),
		ReferenceNumber: s.ReferenceNumber,
		IssuedBy:        s.IssuedBy,
		Remarks:         s.Remarks,
		Items:           lines,
		CreatedAt:       s.CreatedAt,
	}
}
