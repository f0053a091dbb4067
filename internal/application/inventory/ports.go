package inventory

import (
	"context"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Balances         repository.BalanceRepository
	Ledger           repository.LedgerRepository
	MaterialRequests repository.MaterialRequestRepository
	GRNs             repository.GRNRepository
	Issues           repository.StockIssueRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error, o ctx se cancela antes del commit, no queda nada aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// Locker provee exclusión mutua por llave. Lock adquiere todas las llaves en orden
// (sin duplicados) y devuelve la función que las libera.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// GRNPDFGenerator genera la representación en PDF de una nota de recepción.
type GRNPDFGenerator interface {
	GenerateGRN(grn *entity.GRN, project *entity.Project, items map[string]*entity.Item) ([]byte, error)
}
