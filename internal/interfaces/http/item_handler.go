package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/application/usecase"
)

// ItemHandler maneja el catálogo de items y su historial de movimientos.
type ItemHandler struct {
	uc     *usecase.ItemUseCase
	ledger *inventory.StockLedgerUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, ledger *inventory.StockLedgerUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, ledger: ledger}
}

// Create godoc
// @Summary      Crear item del catálogo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateItemRequest  true  "name, unit, type (material|machine)"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener item
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del item"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "item")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar item (campos descriptivos)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del item"
// @Param        body  body      dto.UpdateItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "item")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar items
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "Límite"  default(20)
// @Param        offset  query     int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de movimientos de un item
// @Description  Entradas del kardex del item, más reciente primero. Con project_id solo las de esa obra
// @Description  (incluye traslados en los que la obra es origen o destino).
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id          path      string  true   "ID del item"
// @Param        project_id  query     string  false  "Filtrar por obra"
// @Param        limit       query     int     false  "Límite"  default(20)
// @Param        offset      query     int     false  "Offset"  default(0)
// @Success      200         {object}  dto.LedgerListResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/items/{id}/history [get]
func (h *ItemHandler) History(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.ledger.GetItemHistory(c.Context(), c.Params("id"), c.Query("project_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
