package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
	"github.com/jhoicas/obra-stock-api/internal/application/usecase"
)

// ProjectHandler maneja las obras y sus consultas de existencias y movimientos.
type ProjectHandler struct {
	uc     *usecase.ProjectUseCase
	ledger *inventory.StockLedgerUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *usecase.ProjectUseCase, ledger *inventory.StockLedgerUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc, ledger: ledger}
}

// Create godoc
// @Summary      Crear obra
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProjectRequest  true  "name, code, location"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
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
// @Summary      Obtener obra
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la obra"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "obra")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar obra
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID de la obra"
// @Param        body  body      dto.UpdateProjectRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProjectRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "obra")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar obras
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "Límite"  default(20)
// @Param        offset  query     int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ProjectListResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stock godoc
// @Summary      Existencias de la obra
// @Description  Saldo vivo por item (incluye saldos en cero) con el contador de dañados del item.
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la obra"
// @Success      200  {object}  dto.ProjectStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/stock [get]
func (h *ProjectHandler) Stock(c *fiber.Ctx) error {
	out, err := h.ledger.GetProjectStock(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Kardex de la obra
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID de la obra"
// @Param        limit   query     int     false  "Límite"  default(20)
// @Param        offset  query     int     false  "Offset"  default(0)
// @Success      200     {object}  dto.LedgerListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/transactions [get]
func (h *ProjectHandler) Transactions(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.ledger.GetProjectTransactions(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Issues godoc
// @Summary      Salidas y consumos de la obra
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID de la obra"
// @Param        type    query     string  false  "ISSUE | CONSUMPTION"
// @Param        period  query     string  false  "today | week | month"
// @Param        limit   query     int     false  "Límite"  default(20)
// @Param        offset  query     int     false  "Offset"  default(0)
// @Success      200     {object}  dto.StockIssueListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/issues [get]
func (h *ProjectHandler) Issues(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.ledger.ListProjectIssues(c.Context(), c.Params("id"), c.Query("type"), c.Query("period"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
