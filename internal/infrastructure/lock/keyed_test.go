package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestKeyedLocker_ExclusionPorLlave(t *testing.T) {
	l := NewKeyedLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		counter int
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			unlock, err := l.Lock(gctx, "stock:p1:i1", "stock:p1:i2")
			if err != nil {
				return err
			}
			defer unlock()
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			counter++

			mu.Lock()
			inside--
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.pending())
}

func TestKeyedLocker_OrdenEvitaDeadlock(t *testing.T) {
	l := NewKeyedLocker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 20; i++ {
		keys := []string{"a", "b"}
		if i%2 == 1 {
			keys = []string{"b", "a", "a"}
		}
		g.Go(func() error {
			unlock, err := l.Lock(gctx, keys...)
			if err != nil {
				return err
			}
			unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestKeyedLocker_ContextoCanceladoMientrasEspera(t *testing.T) {
	l := NewKeyedLocker()
	unlock, err := l.Lock(context.Background(), "k1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k0", "k1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// k0 se liberó al fallar la espera por k1
	unlock0, err := l.Lock(context.Background(), "k0")
	require.NoError(t, err)
	unlock0()

	unlock()
	unlock()
	assert.Equal(t, 0, l.pending())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, normalize([]string{"c", "a", "b", "a"}))
	assert.Empty(t, normalize(nil))
}
