package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

var _ repository.StockIssueRepository = (*StockIssueRepo)(nil)

const issueColumns = `id, project_id, type, reference_number, issued_by, remarks, created_at`

// StockIssueRepo documentos de salida y consumo (stock_issues + stock_issue_lines).
type StockIssueRepo struct {
	q Querier
}

// NewStockIssueRepository construye el adaptador.
func NewStockIssueRepository(q Querier) *StockIssueRepo {
	return &StockIssueRepo{q: q}
}

func scanIssue(row pgx.Row) (*entity.StockIssue, error) {
	var (
		is  entity.StockIssue
		typ string
	)
	if err := row.Scan(&is.ID, &is.ProjectID, &typ, &is.ReferenceNumber, &is.IssuedBy, &is.Remarks, &is.CreatedAt); err != nil {
		return nil, err
	}
	is.Type = entity.TransactionType(typ)
	return &is, nil
}

func (r *StockIssueRepo) Create(ctx context.Context, is *entity.StockIssue) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_issues (`+issueColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		is.ID, is.ProjectID, string(is.Type), is.ReferenceNumber, is.IssuedBy, is.Remarks, is.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock issue: %w", classify(err))
	}
	for i, l := range is.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_issue_lines (stock_issue_id, line_no, item_id, unit, qty, remarks)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			is.ID, i, l.ItemID, l.Unit, l.Qty, l.Remarks,
		)
		if err != nil {
			return fmt.Errorf("insert stock issue line %d: %w", i, classify(err))
		}
	}
	return nil
}

func (r *StockIssueRepo) loadLines(ctx context.Context, docs ...*entity.StockIssue) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.StockIssue, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT stock_issue_id, item_id, unit, qty, remarks
		FROM stock_issue_lines WHERE stock_issue_id = ANY($1) ORDER BY stock_issue_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list stock issue lines: %w", classify(err))
	}
	defer rows.Close()
	for rows.Next() {
		var (
			docID string
			l     entity.StockIssueLine
		)
		if err := rows.Scan(&docID, &l.ItemID, &l.Unit, &l.Qty, &l.Remarks); err != nil {
			return fmt.Errorf("scan stock issue line: %w", err)
		}
		if d := byID[docID]; d != nil {
			d.Items = append(d.Items, l)
		}
	}
	return rows.Err()
}

func (r *StockIssueRepo) GetByID(ctx context.Context, id string) (*entity.StockIssue, error) {
	is, err := scanIssue(r.q.QueryRow(ctx, `SELECT `+issueColumns+` FROM stock_issues WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock issue: %w", classify(err))
	}
	if err := r.loadLines(ctx, is); err != nil {
		return nil, err
	}
	return is, nil
}

// List documentos de la obra filtrados por tipo y rango de fechas, más recientes primero.
func (r *StockIssueRepo) List(ctx context.Context, f repository.StockIssueFilter) ([]*entity.StockIssue, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+issueColumns+`
		FROM stock_issues
		WHERE ($1 = '' OR project_id = $1)
			AND ($2 = '' OR type = $2)
			AND ($3::timestamptz IS NULL OR created_at >= $3)
			AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC, id LIMIT $5 OFFSET $6`,
		f.ProjectID, string(f.Type), f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stock issues: %w", classify(err))
	}
	var list []*entity.StockIssue
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock issue: %w", err)
		}
		list = append(list, is)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock issues: %w", classify(err))
	}
	if err := r.loadLines(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}
