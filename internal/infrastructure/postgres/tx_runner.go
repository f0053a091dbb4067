package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool    *pgxpool.Pool
	retries int
	log     zerolog.Logger
}

// NewTxRunner construye el runner con el pool. retries es la cantidad de reintentos
// cuando la tx aborta por serialización o deadlock.
func NewTxRunner(pool *pgxpool.Pool, retries int, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, retries: retries, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Ante 40001/40P01 repite fn completo; agotados los reintentos devuelve ErrConcurrentModification.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return withRetries(ctx, r.retries, r.log, func() error {
		return r.runOnce(ctx, fn)
	})
}

// withRetries repite once mientras falle con un error reintentable y queden intentos.
func withRetries(ctx context.Context, retries int, log zerolog.Logger, once func() error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = once()
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			break
		}
		log.Debug().Int("attempt", attempt+1).Err(err).Msg("transacción abortada, reintentando")
	}
	return classify(err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.TxRepos{
		Balances:         NewBalanceRepository(tx),
		Ledger:           NewLedgerRepository(tx),
		MaterialRequests: NewMaterialRequestRepository(tx),
		GRNs:             NewGRNRepository(tx),
		Issues:           NewStockIssueRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
