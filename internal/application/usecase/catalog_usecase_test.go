package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/usecase"
	"github.com/jhoicas/obra-stock-api/internal/domain"
	"github.com/jhoicas/obra-stock-api/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func TestItemUseCase_CrearPorDefectoMaterial(t *testing.T) {
	uc := usecase.NewItemUseCase(memory.NewItemRepository(memory.NewStore()))
	ctx := context.Background()

	item, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Arena", Unit: "m3"})
	require.NoError(t, err)
	assert.Equal(t, "material", item.Type)
	assert.True(t, item.IsActive)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "Grúa", Unit: "und", Type: "vehiculo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "Sin unidad"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUseCase_ActualizarSoloDescriptivos(t *testing.T) {
	uc := usecase.NewItemUseCase(memory.NewItemRepository(memory.NewStore()))
	ctx := context.Background()
	item, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Arena", Unit: "m3"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, item.ID, dto.UpdateItemRequest{Name: strPtr("Arena fina"), Category: strPtr("agregados")})
	require.NoError(t, err)
	assert.Equal(t, "Arena fina", updated.Name)
	assert.Equal(t, "agregados", updated.Category)
	assert.Equal(t, "m3", updated.Unit)

	missing, err := uc.Update(ctx, "no-existe", dto.UpdateItemRequest{Name: strPtr("x")})
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := uc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestProjectUseCase_CodigoDuplicado(t *testing.T) {
	uc := usecase.NewProjectUseCase(memory.NewProjectRepository(memory.NewStore()))
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProjectRequest{Name: "Torre A", Code: "TA"})
	require.NoError(t, err)
	assert.Equal(t, "active", p.Status)

	_, err = uc.Create(ctx, dto.CreateProjectRequest{Name: "Otra", Code: "TA"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// sin código no hay conflicto
	_, err = uc.Create(ctx, dto.CreateProjectRequest{Name: "Sin código 1"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProjectRequest{Name: "Sin código 2"})
	require.NoError(t, err)

	closed, err := uc.Update(ctx, p.ID, dto.UpdateProjectRequest{Status: strPtr("closed")})
	require.NoError(t, err)
	assert.Equal(t, "closed", closed.Status)
}
