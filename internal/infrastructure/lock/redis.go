package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/domain"
)

var _ inventory.Locker = (*RedisLocker)(nil)

const redisKeyPrefix = "obra-stock:lock:"

// RedisOptions parámetros del locker distribuido.
type RedisOptions struct {
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
}

// NewRedisClient abre el cliente y verifica la conexión con un ping de 5s.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisLocker locker compartido entre instancias de la API usando bsm/redislock.
type RedisLocker struct {
	client *redislock.Client
	opts   RedisOptions
	log    zerolog.Logger
}

// NewRedisLocker construye el locker sobre un cliente go-redis ya conectado.
func NewRedisLocker(rdb redislock.RedisClient, opts RedisOptions, log zerolog.Logger) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 50 * time.Millisecond
	}
	return &RedisLocker{client: redislock.New(rdb), opts: opts, log: log}
}

// Lock obtiene las llaves en orden. Si alguna no se obtiene tras los reintentos
// libera las tomadas y devuelve domain.ErrConcurrentModification.
func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	ordered := normalize(keys)
	held := make([]*redislock.Lock, 0, len(ordered))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.log.Warn().Err(err).Str("key", held[i].Key()).Msg("no se pudo liberar el lock")
			}
		}
	}

	for _, k := range ordered {
		lk, err := l.client.Obtain(ctx, redisKeyPrefix+k, l.opts.TTL, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.opts.RetryDelay), l.opts.Retries),
		})
		if errors.Is(err, redislock.ErrNotObtained) {
			release()
			return nil, fmt.Errorf("%w: llave %s ocupada", domain.ErrConcurrentModification, k)
		}
		if err != nil {
			release()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: redis: %v", domain.ErrStorageUnavailable, err)
		}
		held = append(held, lk)
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		release()
	}, nil
}
