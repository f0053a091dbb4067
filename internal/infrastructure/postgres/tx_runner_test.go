package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/obra-stock-api/internal/domain"
)

func TestWithRetries_DeadlockEnRepoSeReintenta(t *testing.T) {
	calls := 0
	err := withRetries(context.Background(), 3, zerolog.Nop(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("get balance for update: %w", classify(&pgconn.PgError{Code: "40P01"}))
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetries_AgotadosDevuelveConcurrentModification(t *testing.T) {
	calls := 0
	err := withRetries(context.Background(), 2, zerolog.Nop(), func() error {
		calls++
		return fmt.Errorf("append ledger: %w", classify(&pgconn.PgError{Code: "40001"}))
	})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, 3, calls)
}

func TestWithRetries_ErrorDeNegocioNoSeReintenta(t *testing.T) {
	calls := 0
	err := withRetries(context.Background(), 3, zerolog.Nop(), func() error {
		calls++
		return domain.ErrInsufficientStock
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, calls)
}

func TestWithRetries_ContextoCanceladoCorta(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetries(ctx, 5, zerolog.Nop(), func() error {
		calls++
		cancel()
		return classify(&pgconn.PgError{Code: "40001"})
	})
	assert.True(t, errors.Is(err, domain.ErrConcurrentModification))
	assert.Equal(t, 1, calls)
}
