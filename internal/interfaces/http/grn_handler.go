package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
)

// GRNHandler maneja las notas de recepción de material.
type GRNHandler struct {
	ledger *inventory.StockLedgerUseCase
}

// NewGRNHandler construye el handler.
func NewGRNHandler(ledger *inventory.StockLedgerUseCase) *GRNHandler {
	return &GRNHandler{ledger: ledger}
}

// Create godoc
// @Summary      Registrar recepción de material (GRN)
// @Description  Suma al saldo de la obra lo aceptado (recibido - dañado) por línea, acumula los
// @Description  contadores en la solicitud y la marca completed cuando todo lo pedido fue recibido.
// @Description  El lote es todo-o-nada.
// @Tags         grn
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReceiveGoodsRequest  true  "material_request_id, datos de transporte e items"
// @Success      201   {object}  dto.GRNResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/grn [post]
func (h *GRNHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceiveGoodsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.ReceiveGoods(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar notas de recepción
// @Tags         grn
// @Security     Bearer
// @Produce      json
// @Param        project_id           query     string  false  "Filtrar por obra"
// @Param        material_request_id  query     string  false  "Filtrar por solicitud"
// @Param        limit                query     int     false  "Límite"  default(20)
// @Param        offset               query     int     false  "Offset"  default(0)
// @Success      200                  {object}  dto.GRNListResponse
// @Router       /api/grn [get]
func (h *GRNHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.ledger.ListGRNs(c.Context(), c.Query("project_id"), c.Query("material_request_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener nota de recepción
// @Tags         grn
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la GRN"
// @Success      200  {object}  dto.GRNResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/grn/{id} [get]
func (h *GRNHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ledger.GetGRN(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "GRN")
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar comprobante PDF de la GRN
// @Tags         grn
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID de la GRN"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/grn/{id}/pdf [get]
func (h *GRNHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.ledger.DownloadGRNPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
