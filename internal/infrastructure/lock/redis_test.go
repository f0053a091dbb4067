package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/lock"
)

func newRedisLocker(t *testing.T) (*lock.RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.NewRedisLocker(client, lock.RedisOptions{
		TTL:        time.Second,
		Retries:    2,
		RetryDelay: 5 * time.Millisecond,
	}, zerolog.Nop()), mr
}

func TestRedisLocker_ObtieneYLibera(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "stock:p1:i1", "mr:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("obra-stock:lock:stock:p1:i1"))
	assert.True(t, mr.Exists("obra-stock:lock:mr:1"))

	unlock()
	unlock()
	assert.False(t, mr.Exists("obra-stock:lock:stock:p1:i1"))
	assert.False(t, mr.Exists("obra-stock:lock:mr:1"))
}

func TestRedisLocker_LlaveOcupadaEsModificacionConcurrente(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "stock:p1:i1")
	require.NoError(t, err)
	defer unlock()

	_, err = l.Lock(ctx, "stock:p1:i0", "stock:p1:i1")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	// la llave tomada antes del fallo quedó liberada
	assert.False(t, mr.Exists("obra-stock:lock:stock:p1:i0"))
}

func TestNewRedisClient_ErrorDeConexion(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := lock.NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = lock.NewRedisClient(context.Background(), mr.Addr(), "", 0)
	assert.Error(t, err)
}
