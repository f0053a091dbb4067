package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

// StockLedgerDeps dependencias del motor de kardex.
type StockLedgerDeps struct {
	TxRunner         TxRunner
	Locker           Locker
	Items            repository.ItemRepository
	Projects         repository.ProjectRepository
	MaterialRequests repository.MaterialRequestRepository
	Balances         repository.BalanceRepository
	Ledger           repository.LedgerRepository
	GRNs             repository.GRNRepository
	Issues           repository.StockIssueRepository
	PDF              GRNPDFGenerator
	Logger           zerolog.Logger
	Now              func() time.Time
}

// StockLedgerUseCase registra los movimientos de stock por obra (recepción, salida, consumo,
// traslado, devolución) y responde las consultas de existencias y kardex.
//
// Cada movimiento toma las llaves (obra, item) afectadas en orden, y dentro de una sola
// transacción ajusta saldos y agrega las entradas del kardex. Si cualquier línea falla
// no queda nada aplicado.
type StockLedgerUseCase struct {
	txRunner         TxRunner
	locker           Locker
	items            repository.ItemRepository
	projects         repository.ProjectRepository
	materialRequests repository.MaterialRequestRepository
	balances         repository.BalanceRepository
	ledger           repository.LedgerRepository
	grns             repository.GRNRepository
	issues           repository.StockIssueRepository
	pdf              GRNPDFGenerator
	log              zerolog.Logger
	now              func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(deps StockLedgerDeps) *StockLedgerUseCase {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &StockLedgerUseCase{
		txRunner:         deps.TxRunner,
		locker:           deps.Locker,
		items:            deps.Items,
		projects:         deps.Projects,
		materialRequests: deps.MaterialRequests,
		balances:         deps.Balances,
		ledger:           deps.Ledger,
		grns:             deps.GRNs,
		issues:           deps.Issues,
		pdf:              deps.PDF,
		log:              deps.Logger,
		now:              now,
	}
}

// withKeys toma las llaves y ejecuta fn en una transacción. Las llaves se liberan
// después del commit o rollback.
func (uc *StockLedgerUseCase) withKeys(ctx context.Context, keys []string, fn func(repos TxRepos) error) error {
	unlock, err := uc.locker.Lock(ctx, keys...)
	if err != nil {
		return err
	}
	defer unlock()
	return uc.txRunner.Run(ctx, fn)
}

func (uc *StockLedgerUseCase) requireProject(ctx context.Context, id string) (*entity.Project, error) {
	p, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener obra: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: obra %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// requireItems carga los items del lote; un item inexistente falla con ErrNotFound en su línea.
func (uc *StockLedgerUseCase) requireItems(ctx context.Context, itemIDs []string) (map[string]*entity.Item, error) {
	found, err := uc.items.GetByIDs(ctx, uniqueStrings(itemIDs))
	if err != nil {
		return nil, fmt.Errorf("obtener items: %w", err)
	}
	for i, id := range itemIDs {
		if _, ok := found[id]; !ok {
			return nil, domain.NewLineError(i, id, fmt.Errorf("%w: item %s", domain.ErrNotFound, id))
		}
	}
	return found, nil
}

// touch asegura el saldo (obra, item) sin cambiar su cantidad. Lo usa una recepción
// con aceptado cero, que igual deja entrada en el kardex.
func touch(ctx context.Context, balances repository.BalanceRepository, projectID, itemID, unit string, now time.Time) (*entity.Balance, error) {
	bal, err := balances.GetForUpdate(ctx, projectID, itemID)
	if err != nil {
		return nil, err
	}
	if bal.Unit == "" {
		bal.Unit = unit
	}
	bal.UpdatedAt = now
	if err := balances.Upsert(ctx, bal); err != nil {
		return nil, err
	}
	return bal, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func unitOr(unit string, item *entity.Item) string {
	if unit != "" {
		return unit
	}
	if item != nil {
		return item.Unit
	}
	return ""
}

func toBalanceResponse(b *entity.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ProjectID: b.ProjectID,
		ItemID:    b.ItemID,
		Unit:      b.Unit,
		Qty:       b.Qty,
		UpdatedAt: b.UpdatedAt,
	}
}

// toLedgerResponse mapea una entrada; con perspective no vacío las cantidades y el saldo
// se muestran desde esa obra.
func toLedgerResponse(e *entity.LedgerEntry, perspective string) dto.LedgerEntryResponse {
	in, out, bal := e.QtyIn, e.QtyOut, e.BalanceQty
	if perspective != "" {
		in, out, bal = e.ViewFor(perspective)
	}
	resp := dto.LedgerEntryResponse{
		ID:              e.ID,
		ItemID:          e.ItemID,
		ProjectID:       e.ProjectID,
		TransactionType: string(e.Type),
		ReferenceID:     e.ReferenceID,
		ReferenceNumber: e.ReferenceNumber,
		QtyIn:           in,
		QtyOut:          out,
		BalanceQty:      bal,
		Remarks:         e.Remarks,
		ActorID:         e.ActorID,
		CreatedAt:       e.CreatedAt,
	}
	if e.Type == entity.TransactionTransfer {
		resp.FromProject = e.ProjectID
		resp.ToProject = e.ToProjectID
		if perspective != "" {
			resp.ProjectID = perspective
		}
	}
	return resp
}

func toLedgerResponses(list []*entity.LedgerEntry, perspective string) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toLedgerResponse(e, perspective))
	}
	return out
}
