package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockIssue es el documento de una salida (ISSUE) o consumo (CONSUMPTION) en una obra.
type StockIssue struct {
	ID              string
	ProjectID       string
	Type            TransactionType
	ReferenceNumber string
	IssuedBy        string
	Remarks         string
	Items           []StockIssueLine
	CreatedAt       time.Time
}

// StockIssueLine cantidad descontada de un item.
type StockIssueLine struct {
	ItemID  string
	Unit    string
	Qty     decimal.Decimal
	Remarks string
}
