package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

// GetProjectStock devuelve la existencia de cada item con saldo en la obra, ordenada por
// nombre de item. Es solo lectura.
func (uc *StockLedgerUseCase) GetProjectStock(ctx context.Context, projectID string) (*dto.ProjectStockResponse, error) {
	if projectID == "" {
		return nil, domain.Invalid("project_id es requerido")
	}
	if _, err := uc.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	balances, err := uc.balances.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listar saldos: %w", err)
	}
	itemIDs := make([]string, 0, len(balances))
	for _, b := range balances {
		itemIDs = append(itemIDs, b.ItemID)
	}

	var (
		items   map[string]*entity.Item
		damaged map[string]decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = uc.items.GetByIDs(gctx, itemIDs)
		return err
	})
	g.Go(func() error {
		var err error
		damaged, err = uc.balances.DamagedByItems(gctx, itemIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lines := make([]dto.ProjectStockLine, 0, len(balances))
	for _, b := range balances {
		line := dto.ProjectStockLine{
			ItemID:  b.ItemID,
			Unit:    b.Unit,
			Qty:     b.Qty,
			Damaged: decimal.Zero,
		}
		if it, ok := items[b.ItemID]; ok {
			line.Name = it.Name
			if line.Unit == "" {
				line.Unit = it.Unit
			}
		}
		if dmg, ok := damaged[b.ItemID]; ok {
			line.Damaged = dmg
		}
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].ItemID < lines[j].ItemID
	})
	return &dto.ProjectStockResponse{ProjectID: projectID, Items: lines}, nil
}

// GetItemHistory devuelve el kardex de un item, del más reciente al más antiguo.
// Con projectID no vacío se limita a esa obra y las cantidades se ven desde ella.
func (uc *StockLedgerUseCase) GetItemHistory(ctx context.Context, itemID, projectID string, limit, offset int) (*dto.LedgerListResponse, error) {
	if itemID == "" {
		return nil, domain.Invalid("item_id es requerido")
	}
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("obtener item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}
	if projectID != "" {
		if _, err := uc.requireProject(ctx, projectID); err != nil {
			return nil, err
		}
	}
	list, err := uc.ledger.ListByItem(ctx, itemID, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar kardex: %w", err)
	}
	return &dto.LedgerListResponse{
		Items: toLedgerResponses(list, projectID),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetProjectTransactions devuelve los movimientos donde la obra es origen, destino o única parte.
func (uc *StockLedgerUseCase) GetProjectTransactions(ctx context.Context, projectID string, limit, offset int) (*dto.LedgerListResponse, error) {
	if projectID == "" {
		return nil, domain.Invalid("project_id es requerido")
	}
	if _, err := uc.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	list, err := uc.ledger.ListByProject(ctx, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	return &dto.LedgerListResponse{
		Items: toLedgerResponses(list, projectID),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListProjectIssues lista salidas o consumos de una obra. period acepta today, week, month o vacío.
func (uc *StockLedgerUseCase) ListProjectIssues(ctx context.Context, projectID, typ, period string, limit, offset int) (*dto.StockIssueListResponse, error) {
	if projectID == "" {
		return nil, domain.Invalid("project_id es requerido")
	}
	t := entity.TransactionType(typ)
	if typ != "" && t != entity.TransactionIssue && t != entity.TransactionConsumption {
		return nil, domain.Invalid("type debe ser ISSUE o CONSUMPTION")
	}
	from, to, err := PeriodRange(period, uc.now())
	if err != nil {
		return nil, err
	}
	if _, err := uc.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	list, err := uc.issues.List(ctx, repository.StockIssueFilter{
		ProjectID: projectID,
		Type:      t,
		From:      from,
		To:        to,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listar salidas: %w", err)
	}
	out := make([]dto.StockIssueResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toStockIssueResponse(s))
	}
	return &dto.StockIssueListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// PeriodRange traduce un periodo de reporte a un rango [from, to]:
// today desde las 00:00, week los últimos 7 días, month desde el día 1; to es el fin del día.
// Periodo vacío no filtra.
func PeriodRange(period string, now time.Time) (*time.Time, *time.Time, error) {
	if period == "" {
		return nil, nil, nil
	}
	y, m, d := now.Date()
	loc := now.Location()
	end := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
	var start time.Time
	switch period {
	case "today":
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case "week":
		start = now.AddDate(0, 0, -7)
	case "month":
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return nil, nil, domain.Invalid("period debe ser today, week o month")
	}
	return &start, &end, nil
}
