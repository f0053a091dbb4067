package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequestRequest entrada para crear una solicitud de material.
type CreateMaterialRequestRequest struct {
	ProjectID string                      `json:"project_id" validate:"required"`
	Remarks   string                      `json:"remarks"`
	Items     []MaterialRequestLineRequest `json:"items" validate:"required,min=1,dive"`
}

// MaterialRequestLineRequest línea solicitada.
type MaterialRequestLineRequest struct {
	ItemID       string          `json:"item_id" validate:"required"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	Unit         string          `json:"unit"`
	Priority     string          `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Purpose      string          `json:"purpose"`
}

// RejectMaterialRequestRequest motivo del rechazo.
type RejectMaterialRequestRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// OrderMaterialRequestRequest número de orden de compra emitida.
type OrderMaterialRequestRequest struct {
	PONumber string `json:"po_number" validate:"required,max=50"`
}

// MaterialRequestLineResponse línea con sus contadores acumulados de recepción.
type MaterialRequestLineResponse struct {
	ItemID       string          `json:"item_id"`
	Unit         string          `json:"unit"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	Priority     string          `json:"priority,omitempty"`
	Purpose      string          `json:"purpose,omitempty"`
	ReceivedQty  decimal.Decimal `json:"received_qty"`
	DamagedQty   decimal.Decimal `json:"damaged_qty"`
	ShortQty     decimal.Decimal `json:"short_qty"`
	ExcessQty    decimal.Decimal `json:"excess_qty"`
	AcceptedQty  decimal.Decimal `json:"accepted_qty"`
}

// MaterialRequestResponse salida de una solicitud de material.
type MaterialRequestResponse struct {
	ID              string                        `json:"id"`
	ProjectID       string                        `json:"project_id"`
	Status          string                        `json:"status"`
	RequestedBy     string                        `json:"requested_by"`
	PONumber        string                        `json:"po_number,omitempty"`
	ApprovedBy      string                        `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time                    `json:"approved_at,omitempty"`
	RejectionReason string                        `json:"rejection_reason,omitempty"`
	Remarks         string                        `json:"remarks,omitempty"`
	Items           []MaterialRequestLineResponse `json:"items"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
}

// MaterialRequestListResponse lista paginada de solicitudes.
type MaterialRequestListResponse struct {
	Items []MaterialRequestResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}
