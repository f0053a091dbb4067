package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/obra-stock-api/internal/domain/inventory"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

// MaterialRequestUseCase ciclo de vida de las solicitudes de material:
// creación, aprobación, rechazo y emisión de orden de compra. La recepción
// (ordered -> completed) la hace StockLedgerUseCase.ReceiveGoods.
type MaterialRequestUseCase struct {
	repo     repository.MaterialRequestRepository
	projects repository.ProjectRepository
	items    repository.ItemRepository
	locker   inventory.Locker
}

// NewMaterialRequestUseCase construye el caso de uso.
func NewMaterialRequestUseCase(
	repo repository.MaterialRequestRepository,
	projects repository.ProjectRepository,
	items repository.ItemRepository,
	locker inventory.Locker,
) *MaterialRequestUseCase {
	return &MaterialRequestUseCase{repo: repo, projects: projects, items: items, locker: locker}
}

// Create registra una solicitud pending a nombre de actorID.
func (uc *MaterialRequestUseCase) Create(ctx context.Context, actorID string, in dto.CreateMaterialRequestRequest) (*dto.MaterialRequestResponse, error) {
	if in.ProjectID == "" || len(in.Items) == 0 {
		return nil, domain.Invalid("project_id e items son requeridos")
	}
	ids := make([]string, 0, len(in.Items))
	for i, l := range in.Items {
		if l.ItemID == "" {
			return nil, domain.NewLineError(i, "", domain.Invalid("item_id es requerido"))
		}
		if !l.RequestedQty.IsPositive() {
			return nil, domain.NewLineError(i, l.ItemID, domain.Invalid("requested_qty debe ser mayor que cero"))
		}
		if err := domaininv.CheckScale(l.RequestedQty); err != nil {
			return nil, domain.NewLineError(i, l.ItemID, err)
		}
		ids = append(ids, l.ItemID)
	}
	project, err := uc.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: obra %s", domain.ErrNotFound, in.ProjectID)
	}
	items, err := uc.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	mr := &entity.MaterialRequest{
		ID:          uuid.New().String(),
		ProjectID:   in.ProjectID,
		RequestedBy: actorID,
		Status:      entity.MRStatusPending,
		Remarks:     in.Remarks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, l := range in.Items {
		item, ok := items[l.ItemID]
		if !ok {
			return nil, domain.NewLineError(i, l.ItemID, fmt.Errorf("%w: item %s", domain.ErrNotFound, l.ItemID))
		}
		unit := l.Unit
		if unit == "" {
			unit = item.Unit
		}
		mr.Items = append(mr.Items, entity.MaterialRequestLine{
			ItemID:       l.ItemID,
			Unit:         unit,
			RequestedQty: l.RequestedQty,
			Priority:     l.Priority,
			Purpose:      l.Purpose,
		})
	}
	if err := uc.repo.Create(ctx, mr); err != nil {
		return nil, err
	}
	return toMaterialRequestResponse(mr), nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (uc *MaterialRequestUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialRequestResponse, error) {
	mr, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mr == nil {
		return nil, nil
	}
	return toMaterialRequestResponse(mr), nil
}

// List lista solicitudes según el filtro (obra, estado, solicitante).
func (uc *MaterialRequestUseCase) List(ctx context.Context, filter repository.MaterialRequestFilter) (*dto.MaterialRequestListResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialRequestResponse, 0, len(list))
	for _, mr := range list {
		items = append(items, *toMaterialRequestResponse(mr))
	}
	return &dto.MaterialRequestListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Approve pasa la solicitud de pending a approved.
func (uc *MaterialRequestUseCase) Approve(ctx context.Context, id, actorID string) (*dto.MaterialRequestResponse, error) {
	return uc.transition(ctx, id, entity.MRStatusApproved, func(mr *entity.MaterialRequest, now time.Time) {
		mr.ApprovedBy = actorID
		mr.ApprovedAt = &now
	})
}

// Reject pasa la solicitud de pending a rejected con el motivo indicado.
func (uc *MaterialRequestUseCase) Reject(ctx context.Context, id, reason string) (*dto.MaterialRequestResponse, error) {
	if reason == "" {
		return nil, domain.Invalid("reason es requerido")
	}
	return uc.transition(ctx, id, entity.MRStatusRejected, func(mr *entity.MaterialRequest, _ time.Time) {
		mr.RejectionReason = reason
	})
}

// Order registra la orden de compra de una solicitud aprobada (approved -> ordered).
func (uc *MaterialRequestUseCase) Order(ctx context.Context, id, poNumber string) (*dto.MaterialRequestResponse, error) {
	if poNumber == "" {
		return nil, domain.Invalid("po_number es requerido")
	}
	return uc.transition(ctx, id, entity.MRStatusOrdered, func(mr *entity.MaterialRequest, _ time.Time) {
		mr.PONumber = poNumber
	})
}

// transition aplica un cambio de estado bajo la llave de la solicitud, la misma que toma una recepción.
func (uc *MaterialRequestUseCase) transition(ctx context.Context, id, to string, apply func(*entity.MaterialRequest, time.Time)) (*dto.MaterialRequestResponse, error) {
	unlock, err := uc.locker.Lock(ctx, entity.MaterialRequestKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	mr, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mr == nil {
		return nil, domain.ErrNotFound
	}
	if !domaininv.CanTransition(mr.Status, to) {
		return nil, fmt.Errorf("%w: la solicitud está en estado %s", domain.ErrConflict, mr.Status)
	}
	now := time.Now()
	mr.Status = to
	apply(mr, now)
	mr.UpdatedAt = now
	if err := uc.repo.Update(ctx, mr); err != nil {
		return nil, err
	}
	return toMaterialRequestResponse(mr), nil
}

func toMaterialRequestResponse(mr *entity.MaterialRequest) *dto.MaterialRequestResponse {
	lines := make([]dto.MaterialRequestLineResponse, 0, len(mr.Items))
	for _, l := range mr.Items {
		lines = append(lines, dto.MaterialRequestLineResponse{
			ItemID:       l.ItemID,
			Unit:         l.Unit,
			RequestedQty: l.RequestedQty,
			Priority:     l.Priority,
			Purpose:      l.Purpose,
			ReceivedQty:  l.ReceivedQty,
			DamagedQty:   l.DamagedQty,
			ShortQty:     l.ShortQty,
			ExcessQty:    l.ExcessQty,
			AcceptedQty:  l.AcceptedQty,
		})
	}
	return &dto.MaterialRequestResponse{
		ID:              mr.ID,
		ProjectID:       mr.ProjectID,
		Status:          mr.Status,
		RequestedBy:     mr.RequestedBy,
		PONumber:        mr.PONumber,
		ApprovedBy:      mr.ApprovedBy,
		ApprovedAt:      mr.ApprovedAt,
		RejectionReason: mr.RejectionReason,
		Remarks:         mr.Remarks,
		Items:           lines,
		CreatedAt:       mr.CreatedAt,
		UpdatedAt:       mr.UpdatedAt,
	}
}
