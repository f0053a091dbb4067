package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

var _ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)

const mrColumns = `id, project_id, requested_by, status, po_number, approved_by, approved_at,
	rejection_reason, remarks, created_at, updated_at`

// MaterialRequestRepo solicitudes de material con sus líneas (material_request_lines).
type MaterialRequestRepo struct {
	q Querier
}

// NewMaterialRequestRepository construye el adaptador de solicitudes.
func NewMaterialRequestRepository(q Querier) *MaterialRequestRepo {
	return &MaterialRequestRepo{q: q}
}

func scanMR(row pgx.Row) (*entity.MaterialRequest, error) {
	var mr entity.MaterialRequest
	err := row.Scan(&mr.ID, &mr.ProjectID, &mr.RequestedBy, &mr.Status, &mr.PONumber, &mr.ApprovedBy,
		&mr.ApprovedAt, &mr.RejectionReason, &mr.Remarks, &mr.CreatedAt, &mr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &mr, nil
}

// Create inserta la cabecera y las líneas.
func (r *MaterialRequestRepo) Create(ctx context.Context, mr *entity.MaterialRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_requests (`+mrColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		mr.ID, mr.ProjectID, mr.RequestedBy, mr.Status, mr.PONumber, mr.ApprovedBy, mr.ApprovedAt,
		mr.RejectionReason, mr.Remarks, mr.CreatedAt, mr.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material request: %w", classify(err))
	}
	return r.saveLines(ctx, mr)
}

// saveLines inserta o actualiza cada línea por su posición.
func (r *MaterialRequestRepo) saveLines(ctx context.Context, mr *entity.MaterialRequest) error {
	for i, l := range mr.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO material_request_lines (material_request_id, line_no, item_id, unit, requested_qty,
				priority, purpose, received_qty, damaged_qty, short_qty, excess_qty, accepted_qty)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (material_request_id, line_no) DO UPDATE SET
				received_qty = EXCLUDED.received_qty, damaged_qty = EXCLUDED.damaged_qty,
				short_qty = EXCLUDED.short_qty, excess_qty = EXCLUDED.excess_qty,
				accepted_qty = EXCLUDED.accepted_qty`,
			mr.ID, i, l.ItemID, l.Unit, l.RequestedQty, l.Priority, l.Purpose,
			l.ReceivedQty, l.DamagedQty, l.ShortQty, l.ExcessQty, l.AcceptedQty,
		)
		if err != nil {
			return fmt.Errorf("save material request line %d: %w", i, classify(err))
		}
	}
	return nil
}

func (r *MaterialRequestRepo) loadLines(ctx context.Context, mrs ...*entity.MaterialRequest) error {
	if len(mrs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.MaterialRequest, len(mrs))
	ids := make([]string, 0, len(mrs))
	for _, mr := range mrs {
		byID[mr.ID] = mr
		ids = append(ids, mr.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT material_request_id, item_id, unit, requested_qty, priority, purpose,
			received_qty, damaged_qty, short_qty, excess_qty, accepted_qty
		FROM material_request_lines
		WHERE material_request_id = ANY($1)
		ORDER BY material_request_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list material request lines: %w", classify(err))
	}
	defer rows.Close()
	for rows.Next() {
		var (
			mrID string
			l    entity.MaterialRequestLine
		)
		if err := rows.Scan(&mrID, &l.ItemID, &l.Unit, &l.RequestedQty, &l.Priority, &l.Purpose,
			&l.ReceivedQty, &l.DamagedQty, &l.ShortQty, &l.ExcessQty, &l.AcceptedQty); err != nil {
			return fmt.Errorf("scan material request line: %w", err)
		}
		if mr := byID[mrID]; mr != nil {
			mr.Items = append(mr.Items, l)
		}
	}
	return rows.Err()
}

func (r *MaterialRequestRepo) get(ctx context.Context, query, id string) (*entity.MaterialRequest, error) {
	mr, err := scanMR(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material request: %w", classify(err))
	}
	if err := r.loadLines(ctx, mr); err != nil {
		return nil, err
	}
	return mr, nil
}

// GetByID obtiene la solicitud con sus líneas; nil si no existe.
func (r *MaterialRequestRepo) GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.get(ctx, `SELECT `+mrColumns+` FROM material_requests WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la tx.
func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.get(ctx, `SELECT `+mrColumns+` FROM material_requests WHERE id = $1 FOR UPDATE`, id)
}

// Update guarda estado, aprobación y contadores de recepción de las líneas.
func (r *MaterialRequestRepo) Update(ctx context.Context, mr *entity.MaterialRequest) error {
	_, err := r.q.Exec(ctx, `
		UPDATE material_requests SET status = $2, po_number = $3, approved_by = $4, approved_at = $5,
			rejection_reason = $6, remarks = $7, updated_at = $8
		WHERE id = $1`,
		mr.ID, mr.Status, mr.PONumber, mr.ApprovedBy, mr.ApprovedAt, mr.RejectionReason, mr.Remarks, mr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update material request: %w", classify(err))
	}
	return r.saveLines(ctx, mr)
}

// List solicitudes filtradas, más recientes primero.
func (r *MaterialRequestRepo) List(ctx context.Context, f repository.MaterialRequestFilter) ([]*entity.MaterialRequest, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+mrColumns+`
		FROM material_requests
		WHERE ($1 = '' OR project_id = $1) AND ($2 = '' OR status = $2) AND ($3 = '' OR requested_by = $3)
		ORDER BY created_at DESC, id LIMIT $4 OFFSET $5`,
		f.ProjectID, f.Status, f.RequestedBy, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list material requests: %w", classify(err))
	}
	var list []*entity.MaterialRequest
	for rows.Next() {
		mr, err := scanMR(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan material request: %w", err)
		}
		list = append(list, mr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list material requests: %w", classify(err))
	}
	if err := r.loadLines(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}
