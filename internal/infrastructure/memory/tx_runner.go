package memory

import (
	"context"

	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con repositorios que acumulan escrituras y las aplican
// juntas solo si fn termina sin error y ctx sigue vigente.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn; si falla, o ctx se canceló, descarta lo pendiente (rollback).
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := newTxState()
	repos := inventory.TxRepos{
		Balances:         &BalanceRepo{s: r.s, tx: tx},
		Ledger:           &LedgerRepo{s: r.s, tx: tx},
		MaterialRequests: &MaterialRequestRepo{s: r.s, tx: tx},
		GRNs:             &GRNRepo{s: r.s, tx: tx},
		Issues:           &StockIssueRepo{s: r.s, tx: tx},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.commit(tx)
	return nil
}
