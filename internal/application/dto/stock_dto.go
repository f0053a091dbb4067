package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssueRequest entrada para una salida o un consumo de varios items en una obra.
// El lote se aplica completo o no se aplica.
type IssueRequest struct {
	ProjectID string             `json:"project_id" validate:"required"`
	Remarks   string             `json:"remarks"`
	Items     []IssueLineRequest `json:"items" validate:"required,min=1,dive"`
}

// IssueLineRequest línea de salida/consumo. Qty debe ser mayor que cero.
type IssueLineRequest struct {
	ItemID  string          `json:"item_id" validate:"required"`
	Qty     decimal.Decimal `json:"qty"`
	Unit    string          `json:"unit"`
	Remarks string          `json:"remarks"`
}

// TransferRequest entrada para trasladar un item entre obras.
type TransferRequest struct {
	FromProjectID string          `json:"from_project_id" validate:"required"`
	ToProjectID   string          `json:"to_project_id" validate:"required,nefield=FromProjectID"`
	ItemID        string          `json:"item_id" validate:"required"`
	Qty           decimal.Decimal `json:"qty"`
	Unit          string          `json:"unit"`
	Remarks       string          `json:"remarks"`
}

// ReturnRequest entrada para devolver material de una obra a su origen.
type ReturnRequest struct {
	ProjectID string          `json:"project_id" validate:"required"`
	ItemID    string          `json:"item_id" validate:"required"`
	Qty       decimal.Decimal `json:"qty"`
	Unit      string          `json:"unit"`
	Remarks   string          `json:"remarks"`
}

// BalanceResponse saldo de un item en una obra.
type BalanceResponse struct {
	ProjectID string          `json:"project_id"`
	ItemID    string          `json:"item_id"`
	Unit      string          `json:"unit"`
	Qty       decimal.Decimal `json:"qty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LedgerEntryResponse entrada del kardex. En un traslado FromProject/ToProject
// indican origen y destino.
type LedgerEntryResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	ProjectID       string          `json:"project_id"`
	FromProject     string          `json:"from_project,omitempty"`
	ToProject       string          `json:"to_project,omitempty"`
	TransactionType string          `json:"transaction_type"`
	ReferenceID     string          `json:"reference_id"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	QtyIn           decimal.Decimal `json:"qty_in"`
	QtyOut          decimal.Decimal `json:"qty_out"`
	BalanceQty      decimal.Decimal `json:"balance_qty"`
	Remarks         string          `json:"remarks,omitempty"`
	ActorID         string          `json:"actor_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LedgerListResponse lista paginada del kardex (más reciente primero).
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// StockIssueLineResponse línea descontada.
type StockIssueLineResponse struct {
	ItemID  string          `json:"item_id"`
	Unit    string          `json:"unit"`
	Qty     decimal.Decimal `json:"qty"`
	Remarks string          `json:"remarks,omitempty"`
}

// StockIssueResponse documento de salida o consumo con los movimientos generados.
type StockIssueResponse struct {
	ID              string                   `json:"id"`
	ProjectID       string                   `json:"project_id"`
	Type            string                   `json:"type"`
	ReferenceNumber string                   `json:"reference_number"`
	IssuedBy        string                   `json:"issued_by"`
	Remarks         string                   `json:"remarks,omitempty"`
	Items           []StockIssueLineResponse `json:"items"`
	Entries         []LedgerEntryResponse    `json:"entries,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

// StockIssueListResponse lista de salidas/consumos de una obra.
type StockIssueListResponse struct {
	Items []StockIssueResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// TransferResponse saldos resultantes en origen y destino y la entrada TRANSFER.
type TransferResponse struct {
	FromBalance BalanceResponse     `json:"from_balance"`
	ToBalance   BalanceResponse     `json:"to_balance"`
	Entry       LedgerEntryResponse `json:"entry"`
}

// ReturnResponse saldo resultante y la entrada RETURN.
type ReturnResponse struct {
	Balance BalanceResponse     `json:"balance"`
	Entry   LedgerEntryResponse `json:"entry"`
}

// ProjectStockLine existencia de un item en la obra.
type ProjectStockLine struct {
	ItemID  string          `json:"item_id"`
	Name    string          `json:"name"`
	Unit    string          `json:"unit"`
	Qty     decimal.Decimal `json:"qty"`
	Damaged decimal.Decimal `json:"damaged"`
}

// ProjectStockResponse existencias de una obra.
type ProjectStockResponse struct {
	ProjectID string             `json:"project_id"`
	Items     []ProjectStockLine `json:"items"`
}
