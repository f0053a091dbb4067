package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de material.
const (
	MRStatusPending   = "pending"
	MRStatusApproved  = "approved"
	MRStatusRejected  = "rejected"
	MRStatusOrdered   = "ordered"
	MRStatusCompleted = "completed"
)

// MaterialRequest es la solicitud de material de una obra. Sus contadores acumulados
// se alimentan de cada GRN recibida contra ella.
type MaterialRequest struct {
	ID              string
	ProjectID       string
	Items           []MaterialRequestLine
	RequestedBy     string
	Status          string
	PONumber        string
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason string
	Remarks         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MaterialRequestLine es una línea de la solicitud con sus contadores de recepción.
type MaterialRequestLine struct {
	ItemID       string
	Unit         string
	RequestedQty decimal.Decimal
	Priority     string
	Purpose      string
	ReceivedQty  decimal.Decimal
	DamagedQty   decimal.Decimal
	ShortQty     decimal.Decimal
	ExcessQty    decimal.Decimal
	AcceptedQty  decimal.Decimal
}

// Line devuelve la línea del item, o nil si la solicitud no lo incluye.
func (mr *MaterialRequest) Line(itemID string) *MaterialRequestLine {
	for i := range mr.Items {
		if mr.Items[i].ItemID == itemID {
			return &mr.Items[i]
		}
	}
	return nil
}

// MaterialRequestKey es la llave de exclusión mutua de una solicitud.
func MaterialRequestKey(id string) string {
	return "mr:" + id
}
