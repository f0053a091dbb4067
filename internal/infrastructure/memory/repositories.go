package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository            = (*ItemRepo)(nil)
	_ repository.ProjectRepository         = (*ProjectRepo)(nil)
	_ repository.BalanceRepository         = (*BalanceRepo)(nil)
	_ repository.LedgerRepository          = (*LedgerRepo)(nil)
	_ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)
	_ repository.GRNRepository             = (*GRNRepo)(nil)
	_ repository.StockIssueRepository      = (*StockIssueRepo)(nil)
)

// ── Items ────────────────────────────────────────────────────────────────────

// ItemRepo catálogo de items en memoria.
type ItemRepo struct{ s *Store }

// NewItemRepository construye el repositorio.
func NewItemRepository(s *Store) *ItemRepo { return &ItemRepo{s: s} }

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *ItemRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]*entity.Item, len(ids))
	for _, id := range ids {
		if it, ok := r.s.items[id]; ok {
			cp := it
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	return r.Create(ctx, item)
}

func (r *ItemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.RLock()
	list := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		cp := it
		list = append(list, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

// ── Projects ─────────────────────────────────────────────────────────────────

// ProjectRepo obras en memoria.
type ProjectRepo struct{ s *Store }

// NewProjectRepository construye el repositorio.
func NewProjectRepository(s *Store) *ProjectRepo { return &ProjectRepo{s: s} }

func (r *ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Code != "" {
		for _, other := range r.s.projects {
			if other.ID != p.ID && other.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.projects[p.ID] = *p
	return nil
}

func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	return r.Create(ctx, p)
}

func (r *ProjectRepo) List(_ context.Context, limit, offset int) ([]*entity.Project, error) {
	r.s.mu.RLock()
	list := make([]*entity.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		cp := p
		list = append(list, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

// ── Balances ─────────────────────────────────────────────────────────────────

// BalanceRepo saldos por obra+item. Con tx != nil las escrituras quedan pendientes
// hasta el commit y las lecturas ven primero lo pendiente.
type BalanceRepo struct {
	s  *Store
	tx *txState
}

// NewBalanceRepository construye el repositorio fuera de transacción.
func NewBalanceRepository(s *Store) *BalanceRepo { return &BalanceRepo{s: s} }

// GetForUpdate en memoria no bloquea: la exclusión por llave la da el Locker del caso de uso.
func (r *BalanceRepo) GetForUpdate(_ context.Context, projectID, itemID string) (*entity.Balance, error) {
	k := balanceKey(projectID, itemID)
	if r.tx != nil {
		if b, ok := r.tx.balances[k]; ok {
			return &b, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.balances[k]; ok {
		return &b, nil
	}
	return &entity.Balance{ProjectID: projectID, ItemID: itemID, Qty: decimal.Zero}, nil
}

func (r *BalanceRepo) Upsert(_ context.Context, b *entity.Balance) error {
	k := balanceKey(b.ProjectID, b.ItemID)
	if r.tx != nil {
		r.tx.balances[k] = *b
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[k] = *b
	return nil
}

func (r *BalanceRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Balance, error) {
	merged := make(map[string]entity.Balance)
	r.s.mu.RLock()
	for k, b := range r.s.balances {
		if b.ProjectID == projectID {
			merged[k] = b
		}
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for k, b := range r.tx.balances {
			if b.ProjectID == projectID {
				merged[k] = b
			}
		}
	}
	list := make([]*entity.Balance, 0, len(merged))
	for _, b := range merged {
		cp := b
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	return list, nil
}

func (r *BalanceRepo) AddDamaged(_ context.Context, itemID string, qty decimal.Decimal) error {
	if r.tx != nil {
		r.tx.damages[itemID] = r.tx.damages[itemID].Add(qty)
		return nil
	}
	tx := newTxState()
	tx.damages[itemID] = qty
	r.s.commit(tx)
	return nil
}

func (r *BalanceRepo) DamagedByItems(_ context.Context, itemIDs []string) (map[string]decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(itemIDs))
	for _, id := range itemIDs {
		if d, ok := r.s.damages[id]; ok {
			out[id] = d.Damaged
		}
	}
	return out, nil
}

// ── Ledger ───────────────────────────────────────────────────────────────────

// LedgerRepo kardex en memoria; el orden de inserción (Seq) define "más reciente".
type LedgerRepo struct {
	s  *Store
	tx *txState
}

// NewLedgerRepository construye el repositorio fuera de transacción.
func NewLedgerRepository(s *Store) *LedgerRepo { return &LedgerRepo{s: s} }

func (r *LedgerRepo) Append(_ context.Context, e *entity.LedgerEntry) error {
	if r.tx != nil {
		r.tx.ledger = append(r.tx.ledger, *e)
		return nil
	}
	tx := newTxState()
	tx.ledger = append(tx.ledger, *e)
	r.s.commit(tx)
	return nil
}

func (r *LedgerRepo) ListByItem(_ context.Context, itemID, projectID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	return r.newestFirst(func(e *entity.LedgerEntry) bool {
		return e.ItemID == itemID && (projectID == "" || e.Involves(projectID))
	}, limit, offset), nil
}

func (r *LedgerRepo) ListByProject(_ context.Context, projectID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	return r.newestFirst(func(e *entity.LedgerEntry) bool { return e.Involves(projectID) }, limit, offset), nil
}

func (r *LedgerRepo) newestFirst(match func(*entity.LedgerEntry) bool, limit, offset int) []*entity.LedgerEntry {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.LedgerEntry
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		e := r.s.ledger[i]
		if match(&e) {
			list = append(list, &e)
		}
	}
	return page(list, limit, offset)
}

// ── Material requests ────────────────────────────────────────────────────────

// MaterialRequestRepo solicitudes de material en memoria.
type MaterialRequestRepo struct {
	s  *Store
	tx *txState
}

// NewMaterialRequestRepository construye el repositorio fuera de transacción.
func NewMaterialRequestRepository(s *Store) *MaterialRequestRepo {
	return &MaterialRequestRepo{s: s}
}

func (r *MaterialRequestRepo) Create(ctx context.Context, mr *entity.MaterialRequest) error {
	return r.Update(ctx, mr)
}

func (r *MaterialRequestRepo) GetByID(_ context.Context, id string) (*entity.MaterialRequest, error) {
	if r.tx != nil {
		if mr, ok := r.tx.mrs[id]; ok {
			cp := copyMR(mr)
			return &cp, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	mr, ok := r.s.mrs[id]
	if !ok {
		return nil, nil
	}
	cp := copyMR(mr)
	return &cp, nil
}

func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRequestRepo) Update(_ context.Context, mr *entity.MaterialRequest) error {
	if r.tx != nil {
		r.tx.mrs[mr.ID] = copyMR(*mr)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.mrs[mr.ID] = copyMR(*mr)
	return nil
}

func (r *MaterialRequestRepo) List(_ context.Context, f repository.MaterialRequestFilter) ([]*entity.MaterialRequest, error) {
	r.s.mu.RLock()
	var list []*entity.MaterialRequest
	for _, mr := range r.s.mrs {
		if f.ProjectID != "" && mr.ProjectID != f.ProjectID {
			continue
		}
		if f.Status != "" && mr.Status != f.Status {
			continue
		}
		if f.RequestedBy != "" && mr.RequestedBy != f.RequestedBy {
			continue
		}
		cp := copyMR(mr)
		list = append(list, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, f.Limit, f.Offset), nil
}

// ── GRN ──────────────────────────────────────────────────────────────────────

// GRNRepo notas de recepción en memoria.
type GRNRepo struct {
	s  *Store
	tx *txState
}

// NewGRNRepository construye el repositorio fuera de transacción.
func NewGRNRepository(s *Store) *GRNRepo { return &GRNRepo{s: s} }

func (r *GRNRepo) Create(_ context.Context, g *entity.GRN) error {
	if r.tx != nil {
		r.tx.grns = append(r.tx.grns, copyGRN(*g))
		return nil
	}
	tx := newTxState()
	tx.grns = append(tx.grns, copyGRN(*g))
	r.s.commit(tx)
	return nil
}

func (r *GRNRepo) GetByID(_ context.Context, id string) (*entity.GRN, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.grns[id]
	if !ok {
		return nil, nil
	}
	cp := copyGRN(g)
	return &cp, nil
}

func (r *GRNRepo) List(_ context.Context, f repository.GRNFilter) ([]*entity.GRN, error) {
	r.s.mu.RLock()
	var list []*entity.GRN
	for _, g := range r.s.grns {
		if f.ProjectID != "" && g.ProjectID != f.ProjectID {
			continue
		}
		if f.MaterialRequestID != "" && g.MaterialRequestID != f.MaterialRequestID {
			continue
		}
		cp := copyGRN(g)
		list = append(list, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, f.Limit, f.Offset), nil
}

// ── Stock issues ─────────────────────────────────────────────────────────────

// StockIssueRepo documentos de salida/consumo en memoria.
type StockIssueRepo struct {
	s  *Store
	tx *txState
}

// NewStockIssueRepository construye el repositorio fuera de transacción.
func NewStockIssueRepository(s *Store) *StockIssueRepo { return &StockIssueRepo{s: s} }

func (r *StockIssueRepo) Create(_ context.Context, is *entity.StockIssue) error {
	if r.tx != nil {
		r.tx.issues = append(r.tx.issues, copyIssue(*is))
		return nil
	}
	tx := newTxState()
	tx.issues = append(tx.issues, copyIssue(*is))
	r.s.commit(tx)
	return nil
}

func (r *StockIssueRepo) GetByID(_ context.Context, id string) (*entity.StockIssue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	is, ok := r.s.issues[id]
	if !ok {
		return nil, nil
	}
	cp := copyIssue(is)
	return &cp, nil
}

func (r *StockIssueRepo) List(_ context.Context, f repository.StockIssueFilter) ([]*entity.StockIssue, error) {
	r.s.mu.RLock()
	var list []*entity.StockIssue
	for _, is := range r.s.issues {
		if f.ProjectID != "" && is.ProjectID != f.ProjectID {
			continue
		}
		if f.Type != "" && is.Type != f.Type {
			continue
		}
		if f.From != nil && is.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && is.CreatedAt.After(*f.To) {
			continue
		}
		cp := copyIssue(is)
		list = append(list, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, f.Limit, f.Offset), nil
}
