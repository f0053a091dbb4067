package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/obra-stock-api/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"serialización", &pgconn.PgError{Code: "40001"}, domain.ErrConcurrentModification},
		{"deadlock envuelto", fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "40P01"}), domain.ErrConcurrentModification},
		{"conexión caída", &pgconn.PgError{Code: "08006"}, domain.ErrStorageUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, domain.ErrStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}

	plain := errors.New("otro")
	assert.Equal(t, plain, classify(plain))
	assert.Nil(t, classify(nil))
	assert.NotErrorIs(t, classify(context.Canceled), domain.ErrStorageUnavailable)
}

func TestIsRetryable_ErrorYaClasificadoEnRepo(t *testing.T) {
	// así devuelve el error BalanceRepo.GetForUpdate
	repoErr := fmt.Errorf("get balance for update: %w", classify(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, isRetryable(repoErr))
	assert.ErrorIs(t, repoErr, domain.ErrConcurrentModification)

	serial := fmt.Errorf("append ledger: %w", classify(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isRetryable(serial))

	// reclasificar no anida el sentinel otra vez
	assert.Equal(t, classify(repoErr), repoErr)

	assert.False(t, isRetryable(fmt.Errorf("insert: %w", classify(&pgconn.PgError{Code: "23505"}))))
	assert.False(t, isRetryable(domain.ErrInsufficientStock))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("ERROR: duplicate key (SQLSTATE 23505)")))
}

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Nil(t, limitArg(-1))
	assert.Equal(t, 10, limitArg(10))
}
