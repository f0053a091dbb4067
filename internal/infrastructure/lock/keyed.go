// Package lock implementa el puerto Locker: exclusión mutua por llave (obra+item,
// solicitud de material) dentro del proceso o compartida vía Redis.
package lock

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
)

var _ inventory.Locker = (*KeyedLocker)(nil)

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

// KeyedLocker mutex por llave dentro del proceso. Las entradas se eliminan cuando
// nadie las espera ni las tiene.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
}

// NewKeyedLocker crea el locker local.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{entries: make(map[string]*keyedEntry)}
}

// Lock toma las llaves en orden lexicográfico y sin duplicados. Si ctx se cancela
// mientras espera, libera lo ya tomado y devuelve ctx.Err().
func (l *KeyedLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	ordered := normalize(keys)
	held := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if err := l.acquire(ctx, k); err != nil {
			l.releaseAll(held)
			return nil, err
		}
		held = append(held, k)
	}
	var once sync.Once
	return func() { once.Do(func() { l.releaseAll(held) }) }, nil
}

func (l *KeyedLocker) acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(key, e)
		return ctx.Err()
	}
}

func (l *KeyedLocker) releaseAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.entries[keys[i]]
		l.mu.Unlock()
		<-e.ch
		l.unref(keys[i], e)
	}
}

func (l *KeyedLocker) unref(key string, e *keyedEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// pending cantidad de llaves con dueño o en espera.
func (l *KeyedLocker) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
