package entity_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

func TestTransactionType_Valid(t *testing.T) {
	for _, tt := range []entity.TransactionType{
		entity.TransactionGRN, entity.TransactionIssue, entity.TransactionTransfer,
		entity.TransactionReturn, entity.TransactionConsumption,
	} {
		assert.True(t, tt.Valid(), string(tt))
	}
	assert.False(t, entity.TransactionType("IN").Valid())
	assert.False(t, entity.TransactionType("").Valid())
}

func TestLedgerEntry_TrasladoVistoDesdeCadaObra(t *testing.T) {
	e := &entity.LedgerEntry{
		Type:         entity.TransactionTransfer,
		ProjectID:    "A",
		ToProjectID:  "B",
		QtyOut:       decimal.NewFromInt(8),
		BalanceQty:   decimal.NewFromInt(12),
		ToBalanceQty: decimal.NewFromInt(8),
	}
	assert.True(t, e.Involves("A"))
	assert.True(t, e.Involves("B"))
	assert.False(t, e.Involves("C"))

	in, out, bal := e.ViewFor("A")
	assert.True(t, in.IsZero())
	assert.Equal(t, "8", out.String())
	assert.Equal(t, "12", bal.String())

	in, out, bal = e.ViewFor("B")
	assert.Equal(t, "8", in.String())
	assert.True(t, out.IsZero())
	assert.Equal(t, "8", bal.String())
}

func TestLineError_EnvuelveCausa(t *testing.T) {
	err := domain.NewLineError(2, "item-9", domain.ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var le *domain.LineError
	assert.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Line)
	assert.Equal(t, "item-9", le.ItemID)
}
