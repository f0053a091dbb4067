package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// QtyScale decimales que admite una cantidad; coincide con NUMERIC(18,4) del esquema.
const QtyScale = 4

// CheckScale rechaza cantidades con más de QtyScale decimales significativos.
// Ceros a la derecha ("1.50000") son válidos.
func CheckScale(q decimal.Decimal) error {
	if !q.Truncate(QtyScale).Equal(q) {
		return domain.Invalid("la cantidad admite como máximo %d decimales", QtyScale)
	}
	return nil
}

// AcceptedQty implementa la regla de aceptación de una recepción (servicio de dominio).
// Aceptado = max(Recibido - Dañado, 0); nunca resta stock.
func AcceptedQty(received, damaged decimal.Decimal) decimal.Decimal {
	accepted := received.Sub(damaged)
	if accepted.IsNegative() {
		return decimal.Zero
	}
	return accepted
}

// ApplyDelta calcula el nuevo saldo. Falla con ErrInsufficientStock si quedaría negativo.
func ApplyDelta(current, delta decimal.Decimal) (decimal.Decimal, error) {
	next := current.Add(delta)
	if next.IsNegative() {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// ApplyReceipt suma los contadores de una línea de GRN a la línea de la solicitud.
// Los contadores son acumulativos, nunca se sobrescriben.
func ApplyReceipt(line *entity.MaterialRequestLine, rcv entity.GRNLine) {
	line.ReceivedQty = line.ReceivedQty.Add(rcv.ReceivedQty)
	line.DamagedQty = line.DamagedQty.Add(rcv.DamagedQty)
	line.ShortQty = line.ShortQty.Add(rcv.ShortQty)
	line.ExcessQty = line.ExcessQty.Add(rcv.ExcessQty)
	line.AcceptedQty = line.AcceptedQty.Add(rcv.AcceptedQty)
}

// ReceiptStatus recalcula el estado de la solicitud después de una recepción.
// Queda completed solo si todas sus líneas vienen en la recepción actual y tienen
// recibido acumulado >= solicitado; en otro caso ordered.
func ReceiptStatus(mr *entity.MaterialRequest, received map[string]bool) string {
	if len(mr.Items) == 0 {
		return entity.MRStatusOrdered
	}
	for _, line := range mr.Items {
		if !received[line.ItemID] {
			return entity.MRStatusOrdered
		}
		if line.ReceivedQty.LessThan(line.RequestedQty) {
			return entity.MRStatusOrdered
		}
	}
	return entity.MRStatusCompleted
}

// CanTransition valida el ciclo de vida de una solicitud de material:
// pending -> approved | rejected, approved -> ordered. ordered y completed
// solo cambian por recepciones.
func CanTransition(from, to string) bool {
	switch from {
	case entity.MRStatusPending:
		return to == entity.MRStatusApproved || to == entity.MRStatusRejected
	case entity.MRStatusApproved:
		return to == entity.MRStatusOrdered
	}
	return false
}
