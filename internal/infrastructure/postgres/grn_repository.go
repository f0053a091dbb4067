package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

var _ repository.GRNRepository = (*GRNRepo)(nil)

const grnColumns = `id, material_request_id, project_id, po_number, delivery_challan, dispatch_date,
	vehicle_number, driver_name, received_by, remarks, created_at`

// GRNRepo notas de recepción (grns + grn_lines).
type GRNRepo struct {
	q Querier
}

// NewGRNRepository construye el adaptador de notas de recepción.
func NewGRNRepository(q Querier) *GRNRepo {
	return &GRNRepo{q: q}
}

func scanGRN(row pgx.Row) (*entity.GRN, error) {
	var g entity.GRN
	err := row.Scan(&g.ID, &g.MaterialRequestID, &g.ProjectID, &g.PONumber, &g.DeliveryChallan, &g.DispatchDate,
		&g.VehicleNumber, &g.DriverName, &g.ReceivedBy, &g.Remarks, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserta la nota y sus líneas.
func (r *GRNRepo) Create(ctx context.Context, g *entity.GRN) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO grns (`+grnColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		g.ID, g.MaterialRequestID, g.ProjectID, g.PONumber, g.DeliveryChallan, g.DispatchDate,
		g.VehicleNumber, g.DriverName, g.ReceivedBy, g.Remarks, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert grn: %w", classify(err))
	}
	for i, l := range g.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO grn_lines (grn_id, line_no, item_id, unit, ordered_qty, received_qty, damaged_qty,
				short_qty, excess_qty, accepted_qty, remarks)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			g.ID, i, l.ItemID, l.Unit, l.OrderedQty, l.ReceivedQty, l.DamagedQty,
			l.ShortQty, l.ExcessQty, l.AcceptedQty, l.Remarks,
		)
		if err != nil {
			return fmt.Errorf("insert grn line %d: %w", i, classify(err))
		}
	}
	return nil
}

func (r *GRNRepo) loadLines(ctx context.Context, grns ...*entity.GRN) error {
	if len(grns) == 0 {
		return nil
	}
	byID := make(map[string]*entity.GRN, len(grns))
	ids := make([]string, 0, len(grns))
	for _, g := range grns {
		byID[g.ID] = g
		ids = append(ids, g.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT grn_id, item_id, unit, ordered_qty, received_qty, damaged_qty, short_qty, excess_qty, accepted_qty, remarks
		FROM grn_lines WHERE grn_id = ANY($1) ORDER BY grn_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list grn lines: %w", classify(err))
	}
	defer rows.Close()
	for rows.Next() {
		var (
			grnID string
			l     entity.GRNLine
		)
		if err := rows.Scan(&grnID, &l.ItemID, &l.Unit, &l.OrderedQty, &l.ReceivedQty, &l.DamagedQty,
			&l.ShortQty, &l.ExcessQty, &l.AcceptedQty, &l.Remarks); err != nil {
			return fmt.Errorf("scan grn line: %w", err)
		}
		if g := byID[grnID]; g != nil {
			g.Items = append(g.Items, l)
		}
	}
	return rows.Err()
}

// GetByID obtiene la nota con sus líneas; nil si no existe.
func (r *GRNRepo) GetByID(ctx context.Context, id string) (*entity.GRN, error) {
	g, err := scanGRN(r.q.QueryRow(ctx, `SELECT `+grnColumns+` FROM grns WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grn: %w", classify(err))
	}
	if err := r.loadLines(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// List notas filtradas por obra y/o solicitud, más recientes primero.
func (r *GRNRepo) List(ctx context.Context, f repository.GRNFilter) ([]*entity.GRN, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+grnColumns+`
		FROM grns
		WHERE ($1 = '' OR project_id = $1) AND ($2 = '' OR material_request_id = $2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`,
		f.ProjectID, f.MaterialRequestID, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list grns: %w", classify(err))
	}
	var list []*entity.GRN
	for rows.Next() {
		g, err := scanGRN(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan grn: %w", err)
		}
		list = append(list, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list grns: %w", classify(err))
	}
	if err := r.loadLines(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}
