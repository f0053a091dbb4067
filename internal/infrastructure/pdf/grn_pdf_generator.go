// Package pdf genera el comprobante imprimible de una nota de recepción (GRN).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Obra + código       │  N° GRN / OC + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRANSPORTE: Remisión / Vehículo / Conductor / Despacho     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Item | Und | Pedido | Recibido | Dañado | Aceptado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES + QR con el id de la nota + firmas                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

var _ inventory.GRNPDFGenerator = (*MarotoGRNGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoGRNGenerator implementa inventory.GRNPDFGenerator usando Maroto v2.
type MarotoGRNGenerator struct{}

// NewMarotoGRNGenerator construye el generador.
func NewMarotoGRNGenerator() *MarotoGRNGenerator { return &MarotoGRNGenerator{} }

// GenerateGRN genera el PDF y devuelve sus bytes. project puede ser nil (obra eliminada
// o no encontrada); items sin entrada en el mapa se muestran por id.
func (g *MarotoGRNGenerator) GenerateGRN(
	grn *entity.GRN,
	project *entity.Project,
	items map[string]*entity.Item,
) ([]byte, error) {
	if grn == nil {
		return nil, fmt.Errorf("pdf: GRN nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de recepción de material", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(grn, project))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(transportRow(grn))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(grn.Items, items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(grn.Items))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(grn)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(grn *entity.GRN, project *entity.Project) core.Row {
	name, code := grn.ProjectID, ""
	if project != nil {
		name, code = project.Name, project.Code
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Obra: "+nonEmpty(code, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NOTA DE RECEPCIÓN (GRN)", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("OC: "+nonEmpty(grn.PONumber, "-"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+grn.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func transportRow(grn *entity.GRN) core.Row {
	dispatch := "-"
	if grn.DispatchDate != nil {
		dispatch = grn.DispatchDate.Format("02/01/2006")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("TRANSPORTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Remisión: %s   |   Vehículo: %s   |   Conductor: %s   |   Despacho: %s",
				nonEmpty(grn.DeliveryChallan, "-"),
				nonEmpty(grn.VehicleNumber, "-"),
				nonEmpty(grn.DriverName, "-"),
				dispatch,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Item", 4, align.Left),
		h("Und", 1, align.Center),
		h("Pedido", 2, align.Right),
		h("Recibido", 2, align.Right),
		h("Dañado", 1, align.Right),
		h("Aceptado", 2, align.Right),
	)
}

func tableDetailRows(lines []entity.GRNLine, items map[string]*entity.Item) []core.Row {
	result := make([]core.Row, 0, len(lines))
	cell := func(a align.Type) props.Text {
		return props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
	}
	for _, l := range lines {
		name := l.ItemID
		if it := items[l.ItemID]; it != nil {
			name = it.Name
		}
		damaged := cell(align.Right)
		if l.DamagedQty.IsPositive() {
			damaged.Color = colorDanger
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(name, cell(align.Left))),
			col.New(1).Add(text.New(l.Unit, cell(align.Center))),
			col.New(2).Add(text.New(formatQty(l.OrderedQty), cell(align.Right))),
			col.New(2).Add(text.New(formatQty(l.ReceivedQty), cell(align.Right))),
			col.New(1).Add(text.New(formatQty(l.DamagedQty), damaged)),
			col.New(2).Add(text.New(formatQty(l.AcceptedQty), cell(align.Right))),
		))
	}
	return result
}

func totalsRow(lines []entity.GRNLine) core.Row {
	received, damaged, accepted := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		received = received.Add(l.ReceivedQty)
		damaged = damaged.Add(l.DamagedQty)
		accepted = accepted.Add(l.AcceptedQty)
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(8).Add(
		col.New(7).Add(label(fmt.Sprintf("%d líneas", len(lines)))),
		col.New(2).Add(label(formatQty(received))),
		col.New(1).Add(label(formatQty(damaged))),
		col.New(2).Add(label(formatQty(accepted))),
	)
}

func footerRows(grn *entity.GRN) []core.Row {
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(grn.ID, props.Rect{Percent: 90, Center: true})),
			col.New(9).Add(
				text.New("Observaciones: "+nonEmpty(grn.Remarks, "-"), props.Text{
					Size: 8, Top: 2, Left: 3, Color: colorGray,
				}),
				text.New("Recibido por: "+nonEmpty(grn.ReceivedBy, "-"), props.Text{
					Size: 8, Top: 10, Left: 3,
				}),
				text.New("Firma almacenista: ______________________", props.Text{
					Size: 8, Top: 24, Left: 3,
				}),
			),
		),
		row.New(6).Add(col.New(12).Add(
			text.New("Id: "+grn.ID, props.Text{Size: 6.5, Color: colorGray, Top: 1}),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty muestra hasta 3 decimales sin ceros a la derecha. Ej: 10.500 → "10.5".
func formatQty(d decimal.Decimal) string {
	return d.Round(3).String()
}
