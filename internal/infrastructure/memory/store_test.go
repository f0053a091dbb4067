package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/memory"
)

func TestTxRunner_CommitAplicaTodo(t *testing.T) {
	s := memory.NewStore()
	runner := memory.NewTxRunner(s)
	ctx := context.Background()

	err := runner.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.Balances.Upsert(ctx, &entity.Balance{ProjectID: "p1", ItemID: "i1", Qty: decimal.NewFromInt(5)}); err != nil {
			return err
		}
		// la lectura dentro de la tx ve lo pendiente
		b, err := repos.Balances.GetForUpdate(ctx, "p1", "i1")
		require.NoError(t, err)
		assert.True(t, b.Qty.Equal(decimal.NewFromInt(5)))
		return repos.Ledger.Append(ctx, &entity.LedgerEntry{ID: "e1", ItemID: "i1", ProjectID: "p1", Type: entity.TransactionGRN})
	})
	require.NoError(t, err)

	b, err := memory.NewBalanceRepository(s).GetForUpdate(ctx, "p1", "i1")
	require.NoError(t, err)
	assert.True(t, b.Qty.Equal(decimal.NewFromInt(5)))

	entries, err := memory.NewLedgerRepository(s).ListByProject(ctx, "p1", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Seq)
}

func TestTxRunner_ErrorDescartaEscrituras(t *testing.T) {
	s := memory.NewStore()
	runner := memory.NewTxRunner(s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := runner.Run(ctx, func(repos inventory.TxRepos) error {
		_ = repos.Balances.Upsert(ctx, &entity.Balance{ProjectID: "p1", ItemID: "i1", Qty: decimal.NewFromInt(5)})
		_ = repos.Balances.AddDamaged(ctx, "i1", decimal.NewFromInt(2))
		_ = repos.Ledger.Append(ctx, &entity.LedgerEntry{ID: "e1", ItemID: "i1", ProjectID: "p1"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	b, err := memory.NewBalanceRepository(s).GetForUpdate(ctx, "p1", "i1")
	require.NoError(t, err)
	assert.True(t, b.Qty.IsZero())

	dmg, err := memory.NewBalanceRepository(s).DamagedByItems(ctx, []string{"i1"})
	require.NoError(t, err)
	assert.Empty(t, dmg)

	entries, err := memory.NewLedgerRepository(s).ListByItem(ctx, "i1", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTxRunner_ContextoCanceladoNoHaceCommit(t *testing.T) {
	s := memory.NewStore()
	runner := memory.NewTxRunner(s)
	ctx, cancel := context.WithCancel(context.Background())

	err := runner.Run(ctx, func(repos inventory.TxRepos) error {
		_ = repos.Balances.Upsert(ctx, &entity.Balance{ProjectID: "p1", ItemID: "i1", Qty: decimal.NewFromInt(5)})
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	b, err := memory.NewBalanceRepository(s).GetForUpdate(context.Background(), "p1", "i1")
	require.NoError(t, err)
	assert.True(t, b.Qty.IsZero())
}

func TestLedgerRepo_OrdenMasRecientePrimeroYTraslados(t *testing.T) {
	s := memory.NewStore()
	ledger := memory.NewLedgerRepository(s)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, ledger.Append(ctx, &entity.LedgerEntry{ID: "a", ItemID: "i1", ProjectID: "p1", Type: entity.TransactionGRN, CreatedAt: now}))
	require.NoError(t, ledger.Append(ctx, &entity.LedgerEntry{ID: "b", ItemID: "i1", ProjectID: "p1", ToProjectID: "p2", Type: entity.TransactionTransfer, CreatedAt: now}))
	require.NoError(t, ledger.Append(ctx, &entity.LedgerEntry{ID: "c", ItemID: "i2", ProjectID: "p1", Type: entity.TransactionIssue, CreatedAt: now}))

	all, err := ledger.ListByProject(ctx, "p1", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	dest, err := ledger.ListByProject(ctx, "p2", 0, 0)
	require.NoError(t, err)
	require.Len(t, dest, 1)
	assert.Equal(t, "b", dest[0].ID)

	hist, err := ledger.ListByItem(ctx, "i1", "p2", 0, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)

	paged, err := ledger.ListByProject(ctx, "p1", 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "b", paged[0].ID)
}

func TestMaterialRequestRepo_DevuelveCopias(t *testing.T) {
	s := memory.NewStore()
	repo := memory.NewMaterialRequestRepository(s)
	ctx := context.Background()

	mr := &entity.MaterialRequest{
		ID:     "mr1",
		Status: entity.MRStatusPending,
		Items:  []entity.MaterialRequestLine{{ItemID: "i1", RequestedQty: decimal.NewFromInt(10)}},
	}
	require.NoError(t, repo.Create(ctx, mr))

	got, err := repo.GetByID(ctx, "mr1")
	require.NoError(t, err)
	got.Items[0].ReceivedQty = decimal.NewFromInt(3)

	again, err := repo.GetByID(ctx, "mr1")
	require.NoError(t, err)
	assert.True(t, again.Items[0].ReceivedQty.IsZero())

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
