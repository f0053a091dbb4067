package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obra-stock-api/internal/application/dto"
	"github.com/jhoicas/obra-stock-api/internal/application/usecase"
	"github.com/jhoicas/obra-stock-api/internal/domain/entity"
	"github.com/jhoicas/obra-stock-api/internal/domain/repository"
	"github.com/jhoicas/obra-stock-api/pkg/jwt"
)

// MaterialRequestHandler maneja las solicitudes de material.
type MaterialRequestHandler struct {
	uc *usecase.MaterialRequestUseCase
}

// NewMaterialRequestHandler construye el handler.
func NewMaterialRequestHandler(uc *usecase.MaterialRequestUseCase) *MaterialRequestHandler {
	return &MaterialRequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de material
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMaterialRequestRequest  true  "project_id e items"
// @Success      201   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests [post]
func (h *MaterialRequestHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateMaterialRequestRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de material
// @Description  Un supervisor solo ve las solicitudes que él creó.
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        project_id  query     string  false  "Filtrar por obra"
// @Param        status      query     string  false  "pending | approved | rejected | ordered | completed"
// @Param        limit       query     int     false  "Límite"  default(20)
// @Param        offset      query     int     false  "Offset"  default(0)
// @Success      200         {object}  dto.MaterialRequestListResponse
// @Router       /api/material-requests [get]
func (h *MaterialRequestHandler) List(c *fiber.Ctx) error {
	return h.list(c, c.Query("status"))
}

// Pending godoc
// @Summary      Solicitudes pendientes de aprobación
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        project_id  query     string  false  "Filtrar por obra"
// @Success      200         {object}  dto.MaterialRequestListResponse
// @Router       /api/material-requests/pending [get]
func (h *MaterialRequestHandler) Pending(c *fiber.Ctx) error {
	return h.list(c, entity.MRStatusPending)
}

func (h *MaterialRequestHandler) list(c *fiber.Ctx, status string) error {
	limit, offset := pageParams(c)
	filter := repository.MaterialRequestFilter{
		ProjectID: c.Query("project_id"),
		Status:    status,
		Limit:     limit,
		Offset:    offset,
	}
	if GetRole(c) == jwt.RoleSupervisor {
		filter.RequestedBy = GetUserID(c)
	}
	out, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud de material
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id} [get]
func (h *MaterialRequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "solicitud")
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud (pending → approved)
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/approve [patch]
func (h *MaterialRequestHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud (pending → rejected)
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                            true  "ID de la solicitud"
// @Param        body  body      dto.RejectMaterialRequestRequest  true  "motivo"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/reject [patch]
func (h *MaterialRequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectMaterialRequestRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Reject(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Order godoc
// @Summary      Registrar orden de compra (approved → ordered)
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                           true  "ID de la solicitud"
// @Param        body  body      dto.OrderMaterialRequestRequest  true  "po_number"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/order [patch]
func (h *MaterialRequestHandler) Order(c *fiber.Ctx) error {
	var in dto.OrderMaterialRequestRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Order(c.Context(), c.Params("id"), in.PONumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
