package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
)

// ProjectUseCase casos de uso CRUD para obras.
type ProjectUseCase struct {
	repo repository.ProjectRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo}
}

// Create crea una nueva obra en estado active.
func (uc *ProjectUseCase) Create(ctx context.Context, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if in.Name == "" {
		return nil, domain.Invalid("name es requerido")
	}
	now := time.Now()
	project := &entity.Project{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Code:      in.Code,
		Location:  in.Location,
		Status:    entity.ProjectStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// GetByID obtiene una obra por ID; (nil, nil) si no existe.
func (uc *ProjectUseCase) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	return toProjectResponse(project), nil
}

// Update actualiza una obra.
func (uc *ProjectUseCase) Update(ctx context.Context, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	if in.Name != nil {
		project.Name = *in.Name
	}
	if in.Code != nil {
		project.Code = *in.Code
	}
	if in.Location != nil {
		project.Location = *in.Location
	}
	if in.Status != nil {
		if *in.Status != entity.ProjectStatusActive && *in.Status != entity.ProjectStatusClosed {
			return nil, domain.Invalid("status debe ser active o closed")
		}
		project.Status = *in.Status
	}
	project.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// List lista obras con paginación.
func (uc *ProjectUseCase) List(ctx context.Context, limit, offset int) (*dto.ProjectListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProjectResponse(p))
	}
	return &dto.ProjectListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	if p == nil {
		return nil
	}
	return &dto.ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Code:      p.Code,
		Location:  p.Location,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
