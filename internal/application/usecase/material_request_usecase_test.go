package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/usecase"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/lock"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/memory"
)

func newMaterialRequestUC(t *testing.T) *usecase.MaterialRequestUseCase {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	items := memory.NewItemRepository(s)
	projects := memory.NewProjectRepository(s)
	require.NoError(t, items.Create(ctx, &entity.Item{ID: "cemento", Name: "Cemento", Unit: "bag", IsActive: true}))
	require.NoError(t, projects.Create(ctx, &entity.Project{ID: "obra-a", Name: "Obra A", Status: entity.ProjectStatusActive}))
	return usecase.NewMaterialRequestUseCase(memory.NewMaterialRequestRepository(s), projects, items, lock.NewKeyedLocker())
}

func createRequest(t *testing.T, uc *usecase.MaterialRequestUseCase, actorID string) *dto.MaterialRequestResponse {
	t.Helper()
	mr, err := uc.Create(context.Background(), actorID, dto.CreateMaterialRequestRequest{
		ProjectID: "obra-a",
		Items:     []dto.MaterialRequestLineRequest{{ItemID: "cemento", RequestedQty: decimal.NewFromInt(10), Priority: "high"}},
	})
	require.NoError(t, err)
	return mr
}

func TestMaterialRequest_CrearQuedaPendiente(t *testing.T) {
	uc := newMaterialRequestUC(t)
	mr := createRequest(t, uc, "sup-1")

	assert.Equal(t, entity.MRStatusPending, mr.Status)
	assert.Equal(t, "sup-1", mr.RequestedBy)
	require.Len(t, mr.Items, 1)
	assert.Equal(t, "bag", mr.Items[0].Unit, "sin unidad se toma la del item")
	assert.True(t, mr.Items[0].ReceivedQty.IsZero())
}

func TestMaterialRequest_CrearValidaLineas(t *testing.T) {
	uc := newMaterialRequestUC(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "sup-1", dto.CreateMaterialRequestRequest{
		ProjectID: "obra-a",
		Items:     []dto.MaterialRequestLineRequest{{ItemID: "cemento", RequestedQty: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "sup-1", dto.CreateMaterialRequestRequest{
		ProjectID: "obra-a",
		Items: []dto.MaterialRequestLineRequest{
			{ItemID: "cemento", RequestedQty: decimal.NewFromInt(1)},
			{ItemID: "fantasma", RequestedQty: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	var lineErr *domain.LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 1, lineErr.Line)

	_, err = uc.Create(ctx, "sup-1", dto.CreateMaterialRequestRequest{
		ProjectID: "no-existe",
		Items:     []dto.MaterialRequestLineRequest{{ItemID: "cemento", RequestedQty: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaterialRequest_CicloAprobarYOrdenar(t *testing.T) {
	uc := newMaterialRequestUC(t)
	ctx := context.Background()
	mr := createRequest(t, uc, "sup-1")

	approved, err := uc.Approve(ctx, mr.ID, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, entity.MRStatusApproved, approved.Status)
	assert.Equal(t, "mgr-1", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	_, err = uc.Order(ctx, mr.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ordered, err := uc.Order(ctx, mr.ID, "PO-123")
	require.NoError(t, err)
	assert.Equal(t, entity.MRStatusOrdered, ordered.Status)
	assert.Equal(t, "PO-123", ordered.PONumber)

	// ordered solo cambia por recepciones
	_, err = uc.Approve(ctx, mr.ID, "mgr-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMaterialRequest_Rechazar(t *testing.T) {
	uc := newMaterialRequestUC(t)
	ctx := context.Background()
	mr := createRequest(t, uc, "sup-1")

	_, err := uc.Reject(ctx, mr.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rejected, err := uc.Reject(ctx, mr.ID, "sin presupuesto")
	require.NoError(t, err)
	assert.Equal(t, entity.MRStatusRejected, rejected.Status)
	assert.Equal(t, "sin presupuesto", rejected.RejectionReason)

	_, err = uc.Order(ctx, mr.ID, "PO-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMaterialRequest_InexistenteEsNotFound(t *testing.T) {
	uc := newMaterialRequestUC(t)
	ctx := context.Background()

	_, err := uc.Approve(ctx, "no-existe", "mgr-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMaterialRequest_ListarFiltraPorSolicitanteYEstado(t *testing.T) {
	uc := newMaterialRequestUC(t)
	ctx := context.Background()
	first := createRequest(t, uc, "sup-1")
	createRequest(t, uc, "sup-2")
	_, err := uc.Approve(ctx, first.ID, "mgr-1")
	require.NoError(t, err)

	own, err := uc.List(ctx, repository.MaterialRequestFilter{RequestedBy: "sup-2"})
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "sup-2", own.Items[0].RequestedBy)

	pending, err := uc.List(ctx, repository.MaterialRequestFilter{Status: entity.MRStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending.Items, 1)

	all, err := uc.List(ctx, repository.MaterialRequestFilter{ProjectID: "obra-a", Limit: 20})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 20, all.Page.Limit)
}
