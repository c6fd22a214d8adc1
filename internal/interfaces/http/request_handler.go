package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/application/provisioning"
	"github.com/tu-usuario/master-console/internal/application/usecase"
)

// RequestHandler maneja la cola de solicitudes self-service.
type RequestHandler struct {
	uc   *usecase.RequestUseCase
	prov *provisioning.ProvisionUseCase
}

// NewRequestHandler construye el handler inyectando los casos de uso.
func NewRequestHandler(uc *usecase.RequestUseCase, prov *provisioning.ProvisionUseCase) *RequestHandler {
	return &RequestHandler{uc: uc, prov: prov}
}

// Create godoc
// @Summary      Registrar una solicitud self-service (intake público)
// @Tags         tenant-requests
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequestInput  true  "Datos de la solicitud"
// @Success      201   {object}  dto.TenantRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenant-requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes pendientes
// @Tags         tenant-requests
// @Produce      json
// @Success      200  {object}  dto.TenantRequestListResponse
// @Router       /master/tenant-requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar (eliminar) una solicitud
// @Tags         tenant-requests
// @Produce      json
// @Param        requestId  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.AckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /master/tenant-requests/{requestId} [delete]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	if err := h.uc.Reject(c.Context(), c.Params("requestId")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// RetryCleanups godoc
// @Summary      Reintentar limpiezas pendientes de solicitudes aprobadas
// @Tags         tenant-requests
// @Produce      json
// @Success      200  {object}  dto.CleanupRetryResponse
// @Router       /master/tenant-requests/cleanup [post]
func (h *RequestHandler) RetryCleanups(c *fiber.Ctx) error {
	out, err := h.prov.RetryCleanups(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}
