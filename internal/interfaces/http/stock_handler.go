package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/inventory"
)

// StockHandler maneja los movimientos de salida, consumo, traslado y devolución.
type StockHandler struct {
	ledger *inventory.StockLedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.StockLedgerUseCase) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// Issue godoc
// @Summary      Salida de material de la obra (ISSUE)
// @Description  Descuenta cada línea del saldo de la obra. Si alguna no alcanza, no se aplica ninguna.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.IssueRequest  true  "project_id e items"
// @Success      201   {object}  dto.StockIssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/issue [post]
func (h *StockHandler) Issue(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.IssueRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.Issue(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Consumption godoc
// @Summary      Consumo de material en la obra (CONSUMPTION)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.IssueRequest  true  "project_id e items"
// @Success      201   {object}  dto.StockIssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/consumption [post]
func (h *StockHandler) Consumption(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.IssueRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.Consume(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Traslado entre obras (TRANSFER)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferRequest  true  "from_project_id, to_project_id, item_id, qty"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.TransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.Transfer(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Return godoc
// @Summary      Devolución de material al origen (RETURN)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReturnRequest  true  "project_id, item_id, qty"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/return [post]
func (h *StockHandler) Return(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReturnRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.Return(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
