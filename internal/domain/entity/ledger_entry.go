package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType es el tipo cerrado de movimiento que afecta saldos.
type TransactionType string

// Tipos de movimiento del kardex.
const (
	TransactionGRN         TransactionType = "GRN"         // recepción de material (nota de entrada)
	TransactionIssue       TransactionType = "ISSUE"       // salida a frente de obra
	TransactionTransfer    TransactionType = "TRANSFER"    // traslado entre obras
	TransactionReturn      TransactionType = "RETURN"      // devolución al origen
	TransactionConsumption TransactionType = "CONSUMPTION" // consumo en obra
)

// Valid indica si t es uno de los tipos conocidos.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionGRN, TransactionIssue, TransactionTransfer, TransactionReturn, TransactionConsumption:
		return true
	}
	return false
}

// Inbound indica si el tipo suma stock a ProjectID.
func (t TransactionType) Inbound() bool {
	return t == TransactionGRN
}

// LedgerEntry es un registro inmutable del kardex. BalanceQty es el saldo de (ItemID, ProjectID)
// inmediatamente después del movimiento.
//
// Un TRANSFER se registra una sola vez: ProjectID es la obra origen, ToProjectID la destino,
// QtyOut la cantidad trasladada y ToBalanceQty el saldo resultante en destino.
type LedgerEntry struct {
	ID              string
	Seq             int64 // orden de inserción, desempata CreatedAt
	ItemID          string
	ProjectID       string
	ToProjectID     string
	Type            TransactionType
	ReferenceID     string
	ReferenceNumber string
	QtyIn           decimal.Decimal
	QtyOut          decimal.Decimal
	BalanceQty      decimal.Decimal
	ToBalanceQty    decimal.Decimal
	Remarks         string
	ActorID         string
	CreatedAt       time.Time
}

// Involves indica si la obra es origen, destino o única parte del movimiento.
func (e *LedgerEntry) Involves(projectID string) bool {
	return e.ProjectID == projectID || (e.ToProjectID != "" && e.ToProjectID == projectID)
}

// ViewFor devuelve entrada, salida y saldo resultante vistos desde la obra indicada.
// Para la obra destino de un traslado la salida del origen es una entrada.
func (e *LedgerEntry) ViewFor(projectID string) (in, out, balance decimal.Decimal) {
	if e.Type == TransactionTransfer && e.ToProjectID == projectID && e.ProjectID != projectID {
		return e.QtyOut, decimal.Zero, e.ToBalanceQty
	}
	return e.QtyIn, e.QtyOut, e.BalanceQty
}
