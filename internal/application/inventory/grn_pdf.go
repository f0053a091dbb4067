package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/obra-stock-api/internal/domain"
)

// DownloadGRNPDF genera el comprobante PDF de una nota de recepción.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la nota no existe.
func (uc *StockLedgerUseCase) DownloadGRNPDF(ctx context.Context, grnID string) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	grn, err := uc.grns.GetByID(ctx, grnID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener GRN: %w", err)
	}
	if grn == nil {
		return nil, "", domain.ErrNotFound
	}
	project, err := uc.projects.GetByID(ctx, grn.ProjectID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener obra: %w", err)
	}
	ids := make([]string, 0, len(grn.Items))
	for _, l := range grn.Items {
		ids = append(ids, l.ItemID)
	}
	items, err := uc.items.GetByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener items: %w", err)
	}

	pdfBytes, err = uc.pdf.GenerateGRN(grn, project, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	ref := grn.PONumber
	if ref == "" {
		ref = grn.ID
	}
	return pdfBytes, fmt.Sprintf("GRN-%s.pdf", ref), nil
}
