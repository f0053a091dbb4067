package repository

import (
	"context"
	"time"

	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
)

// StockIssueFilter criterios de listado de salidas y consumos de una obra.
type StockIssueFilter struct {
	ProjectID string
	Type      entity.TransactionType
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockIssueRepository define el puerto de persistencia de documentos de salida/consumo.
type StockIssueRepository interface {
	Create(ctx context.Context, issue *entity.StockIssue) error
	GetByID(ctx context.Context, id string) (*entity.StockIssue, error)
	List(ctx context.Context, filter StockIssueFilter) ([]*entity.StockIssue, error)
}
