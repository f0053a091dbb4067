package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

func TestGenerateGRN_DevuelvePDF(t *testing.T) {
	dispatch := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	grn := &entity.GRN{
		ID:              "7b1f9f6e-0000-4000-8000-000000000001",
		ProjectID:       "p1",
		PONumber:        "PO-100",
		DeliveryChallan: "DC-9",
		DispatchDate:    &dispatch,
		ReceivedBy:      "u1",
		CreatedAt:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Items: []entity.GRNLine{{
			ItemID:      "i1",
			Unit:        "bag",
			OrderedQty:  decimal.NewFromInt(100),
			ReceivedQty: decimal.NewFromInt(100),
			DamagedQty:  decimal.NewFromInt(5),
			AcceptedQty: decimal.NewFromInt(95),
		}},
	}
	items := map[string]*entity.Item{"i1": {ID: "i1", Name: "Cemento", Unit: "bag"}}
	project := &entity.Project{ID: "p1", Name: "Torre Norte", Code: "TN-01"}

	out, err := NewMarotoGRNGenerator().GenerateGRN(grn, project, items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	// sin obra ni catálogo también genera
	out, err = NewMarotoGRNGenerator().GenerateGRN(grn, nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateGRN_Nula(t *testing.T) {
	_, err := NewMarotoGRNGenerator().GenerateGRN(nil, nil, nil)
	assert.Error(t, err)
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "10.5", formatQty(decimal.RequireFromString("10.500")))
	assert.Equal(t, "3", formatQty(decimal.NewFromInt(3)))
	assert.Equal(t, "0.333", formatQty(decimal.RequireFromString("0.33333")))
}
