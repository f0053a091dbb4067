// Package memory implementa los puertos de persistencia en memoria. Se usa con
// STORAGE_DRIVER=memory (desarrollo/demo) y en las pruebas de casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// Store guarda el estado completo bajo un RWMutex. Las escrituras dentro de una
// transacción se acumulan en un txState y se aplican juntas en el commit.
type Store struct {
	mu       sync.RWMutex
	items    map[string]entity.Item
	projects map[string]entity.Project
	balances map[string]entity.Balance
	damages  map[string]entity.ItemDamage
	ledger   []entity.LedgerEntry
	seq      int64
	mrs      map[string]entity.MaterialRequest
	grns     map[string]entity.GRN
	issues   map[string]entity.StockIssue
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:    make(map[string]entity.Item),
		projects: make(map[string]entity.Project),
		balances: make(map[string]entity.Balance),
		damages:  make(map[string]entity.ItemDamage),
		mrs:      make(map[string]entity.MaterialRequest),
		grns:     make(map[string]entity.GRN),
		issues:   make(map[string]entity.StockIssue),
	}
}

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

func balanceKey(projectID, itemID string) string {
	return projectID + "\x00" + itemID
}

// txState escrituras pendientes de una transacción.
type txState struct {
	balances map[string]entity.Balance
	damages  map[string]decimal.Decimal
	ledger   []entity.LedgerEntry
	mrs      map[string]entity.MaterialRequest
	grns     []entity.GRN
	issues   []entity.StockIssue
}

func newTxState() *txState {
	return &txState{
		balances: make(map[string]entity.Balance),
		damages:  make(map[string]decimal.Decimal),
		mrs:      make(map[string]entity.MaterialRequest),
	}
}

// commit aplica todas las escrituras del txState de una vez.
func (s *Store) commit(tx *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, b := range tx.balances {
		s.balances[k] = b
	}
	ids := make([]string, 0, len(tx.damages))
	for id := range tx.damages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		cur := s.damages[id]
		cur.ItemID = id
		cur.Damaged = cur.Damaged.Add(tx.damages[id])
		s.damages[id] = cur
	}
	for _, e := range tx.ledger {
		s.seq++
		e.Seq = s.seq
		s.ledger = append(s.ledger, e)
	}
	for id, mr := range tx.mrs {
		s.mrs[id] = mr
	}
	for _, g := range tx.grns {
		s.grns[g.ID] = g
	}
	for _, is := range tx.issues {
		s.issues[is.ID] = is
	}
}

func copyMR(mr entity.MaterialRequest) entity.MaterialRequest {
	mr.Items = append([]entity.MaterialRequestLine(nil), mr.Items...)
	return mr
}

func copyGRN(g entity.GRN) entity.GRN {
	g.Items = append([]entity.GRNLine(nil), g.Items...)
	return g
}

func copyIssue(is entity.StockIssue) entity.StockIssue {
	is.Items = append([]entity.StockIssueLine(nil), is.Items...)
	return is
}

// page recorta una lista ya ordenada. limit <= 0 devuelve todo desde offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
