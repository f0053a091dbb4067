package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance es el saldo vivo de un item en una obra. Se crea en el primer movimiento
// y nunca se elimina; cero es un estado válido.
type Balance struct {
	ProjectID string
	ItemID    string
	Unit      string
	Qty       decimal.Decimal
	UpdatedAt time.Time
}

// ItemDamage acumula por item la cantidad recibida en mal estado. Es informativo:
// no participa en el saldo disponible.
type ItemDamage struct {
	ItemID    string
	Damaged   decimal.Decimal
	UpdatedAt time.Time
}

// StockKey es la llave de exclusión mutua de un saldo (obra, item).
func StockKey(projectID, itemID string) string {
	return "stock:" + projectID + ":" + itemID
}
