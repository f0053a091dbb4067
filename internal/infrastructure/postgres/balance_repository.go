package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldos por obra+item y contador de dañados por item.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// GetForUpdate asegura la fila (en cero si no existe) y la bloquea con SELECT FOR UPDATE.
// Crear la fila primero hace que dos tx concurrentes sobre un saldo nuevo se serialicen.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, projectID, itemID string) (*entity.Balance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (project_id, item_id, qty, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (project_id, item_id) DO NOTHING`, projectID, itemID)
	if err != nil {
		return nil, fmt.Errorf("ensure balance: %w", classify(err))
	}
	var b entity.Balance
	err = r.q.QueryRow(ctx, `
		SELECT project_id, item_id, unit, qty, updated_at
		FROM stock_balances WHERE project_id = $1 AND item_id = $2
		FOR UPDATE`, projectID, itemID,
	).Scan(&b.ProjectID, &b.ItemID, &b.Unit, &b.Qty, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", classify(err))
	}
	return &b, nil
}

// Upsert inserta o actualiza la cantidad (por obra e item).
func (r *BalanceRepo) Upsert(ctx context.Context, b *entity.Balance) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (project_id, item_id, unit, qty, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id, item_id)
		DO UPDATE SET unit = EXCLUDED.unit, qty = EXCLUDED.qty, updated_at = EXCLUDED.updated_at`,
		b.ProjectID, b.ItemID, b.Unit, b.Qty, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", classify(err))
	}
	return nil
}

// ListByProject saldos de la obra, incluidos los que están en cero.
func (r *BalanceRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Balance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT project_id, item_id, unit, qty, updated_at
		FROM stock_balances WHERE project_id = $1 ORDER BY item_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", classify(err))
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ProjectID, &b.ItemID, &b.Unit, &b.Qty, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// AddDamaged suma qty al contador de dañados del item.
func (r *BalanceRepo) AddDamaged(ctx context.Context, itemID string, qty decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO item_damages (item_id, damaged, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (item_id)
		DO UPDATE SET damaged = item_damages.damaged + EXCLUDED.damaged, updated_at = now()`,
		itemID, qty,
	)
	if err != nil {
		return fmt.Errorf("add damaged: %w", classify(err))
	}
	return nil
}

// DamagedByItems contador de dañados para cada item pedido (ausentes = sin daños).
func (r *BalanceRepo) DamagedByItems(ctx context.Context, itemIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT item_id, damaged FROM item_damages WHERE item_id = ANY($1)`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("get damages: %w", classify(err))
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id  string
			qty decimal.Decimal
		)
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan damage: %w", err)
		}
		out[id] = qty
	}
	return out, rows.Err()
}
