package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `seq, id, item_id, project_id, COALESCE(to_project_id, ''), transaction_type,
	reference_id, reference_number, qty_in, qty_out, balance_qty, to_balance_qty, remarks, actor_id, created_at`

// LedgerRepo kardex append-only. seq (BIGSERIAL) define el orden de inserción.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del kardex.
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append agrega una entrada; nunca se actualiza ni se borra.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_ledger (id, item_id, project_id, to_project_id, transaction_type, reference_id,
			reference_number, qty_in, qty_out, balance_qty, to_balance_qty, remarks, actor_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING seq`,
		e.ID, e.ItemID, e.ProjectID, e.ToProjectID, string(e.Type), e.ReferenceID,
		e.ReferenceNumber, e.QtyIn, e.QtyOut, e.BalanceQty, e.ToBalanceQty, e.Remarks, e.ActorID, e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("append ledger: %w", classify(err))
	}
	return nil
}

// ListByItem historial del item, más reciente primero. Con projectID filtra las entradas
// donde la obra es origen o destino.
func (r *LedgerRepo) ListByItem(ctx context.Context, itemID, projectID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM stock_ledger
		WHERE item_id = $1 AND ($2 = '' OR project_id = $2 OR to_project_id = $2)
		ORDER BY seq DESC LIMIT $3 OFFSET $4`,
		itemID, projectID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger by item: %w", classify(err))
	}
	return collectLedger(rows)
}

// ListByProject movimientos de la obra (incluye traslados recibidos), más reciente primero.
func (r *LedgerRepo) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM stock_ledger
		WHERE project_id = $1 OR to_project_id = $1
		ORDER BY seq DESC LIMIT $2 OFFSET $3`,
		projectID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger by project: %w", classify(err))
	}
	return collectLedger(rows)
}

func collectLedger(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var (
			e   entity.LedgerEntry
			typ string
		)
		if err := rows.Scan(&e.Seq, &e.ID, &e.ItemID, &e.ProjectID, &e.ToProjectID, &typ,
			&e.ReferenceID, &e.ReferenceNumber, &e.QtyIn, &e.QtyOut, &e.BalanceQty, &e.ToBalanceQty,
			&e.Remarks, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		e.Type = entity.TransactionType(typ)
		list = append(list, &e)
	}
	return list, rows.Err()
}
