package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GRN (nota de recepción de mercancía) registra la recepción física de material
// solicitado en una MaterialRequest.
type GRN struct {
	ID                string
	MaterialRequestID string
	ProjectID         string
	PONumber          string
	DeliveryChallan   string
	DispatchDate      *time.Time
	VehicleNumber     string
	DriverName        string
	ReceivedBy        string
	Remarks           string
	Items             []GRNLine
	CreatedAt         time.Time
}

// GRNLine es una línea recibida. AcceptedQty = max(ReceivedQty - DamagedQty, 0).
type GRNLine struct {
	ItemID      string
	Unit        string
	OrderedQty  decimal.Decimal
	ReceivedQty decimal.Decimal
	DamagedQty  decimal.Decimal
	ShortQty    decimal.Decimal
	ExcessQty   decimal.Decimal
	AcceptedQty decimal.Decimal
	Remarks     string
}
