package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveGoodsRequest entrada para registrar una nota de recepción (GRN) contra una solicitud.
// DispatchDate en formato YYYY-MM-DD.
type ReceiveGoodsRequest struct {
	MaterialRequestID string           `json:"material_request_id" validate:"required"`
	PONumber          string           `json:"po_number" validate:"max=50"`
	DeliveryChallan   string           `json:"delivery_challan" validate:"max=50"`
	DispatchDate      string           `json:"dispatch_date" validate:"omitempty,datetime=2006-01-02"`
	VehicleNumber     string           `json:"vehicle_number" validate:"max=30"`
	DriverName        string           `json:"driver_name" validate:"max=100"`
	Remarks           string           `json:"remarks"`
	Items             []GRNLineRequest `json:"items" validate:"required,min=1,dive"`
}

// GRNLineRequest cantidades recibidas de un item. Todas deben ser >= 0.
type GRNLineRequest struct {
	ItemID      string          `json:"item_id" validate:"required"`
	Unit        string          `json:"unit"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	DamagedQty  decimal.Decimal `json:"damaged_qty"`
	ShortQty    decimal.Decimal `json:"short_qty"`
	ExcessQty   decimal.Decimal `json:"excess_qty"`
	Remarks     string          `json:"remarks"`
}

// GRNLineResponse línea recibida con la cantidad aceptada.
type GRNLineResponse struct {
	ItemID      string          `json:"item_id"`
	Unit        string          `json:"unit"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	DamagedQty  decimal.Decimal `json:"damaged_qty"`
	ShortQty    decimal.Decimal `json:"short_qty"`
	ExcessQty   decimal.Decimal `json:"excess_qty"`
	AcceptedQty decimal.Decimal `json:"accepted_qty"`
	Remarks     string          `json:"remarks,omitempty"`
}

// GRNResponse nota de recepción. MaterialRequestStatus y Entries solo vienen al crearla.
type GRNResponse struct {
	ID                    string                `json:"id"`
	MaterialRequestID     string                `json:"material_request_id"`
	ProjectID             string                `json:"project_id"`
	PONumber              string                `json:"po_number,omitempty"`
	DeliveryChallan       string                `json:"delivery_challan,omitempty"`
	DispatchDate          *time.Time            `json:"dispatch_date,omitempty"`
	VehicleNumber         string                `json:"vehicle_number,omitempty"`
	DriverName            string                `json:"driver_name,omitempty"`
	ReceivedBy            string                `json:"received_by"`
	Remarks               string                `json:"remarks,omitempty"`
	Items                 []GRNLineResponse     `json:"items"`
	MaterialRequestStatus string                `json:"material_request_status,omitempty"`
	Entries               []LedgerEntryResponse `json:"entries,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
}

// GRNListResponse lista paginada de notas de recepción.
type GRNListResponse struct {
	Items []GRNResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
