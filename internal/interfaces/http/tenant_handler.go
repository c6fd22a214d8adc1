package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/application/provisioning"
	"github.com/tu-usuario/master-console/internal/application/usecase"
)

// TenantHandler maneja las peticiones HTTP del directorio de tenants y del
// aprovisionamiento.
type TenantHandler struct {
	uc   *usecase.TenantUseCase
	prov *provisioning.ProvisionUseCase
}

// NewTenantHandler construye el handler inyectando los casos de uso.
func NewTenantHandler(uc *usecase.TenantUseCase, prov *provisioning.ProvisionUseCase) *TenantHandler {
	return &TenantHandler{uc: uc, prov: prov}
}

// List godoc
// @Summary      Listar tenants
// @Tags         tenants
// @Produce      json
// @Success      200  {object}  dto.TenantListResponse
// @Router       /master/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tenant por id
// @Tags         tenants
// @Produce      json
// @Param        tenantId  path  string  true  "Tenant ID"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /master/tenants/{tenantId} [get]
func (h *TenantHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByTenantID(c.Context(), c.Params("tenantId"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// Provision godoc
// @Summary      Aprovisionar un tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProvisionTenantRequest  true  "Especificación completa del tenant"
// @Success      201   {object}  dto.ProvisionTenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /master/tenants/provision [post]
func (h *TenantHandler) Provision(c *fiber.Ctx) error {
	var in dto.ProvisionTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.prov.Provision(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetServices godoc
// @Summary      Obtener entitlements de un tenant
// @Tags         tenants
// @Produce      json
// @Param        tenantId  path  string  true  "Tenant ID"
// @Success      200  {object}  dto.EntitlementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /master/tenants/{tenantId}/services [get]
func (h *TenantHandler) GetServices(c *fiber.Ctx) error {
	out, err := h.uc.GetEntitlements(c.Context(), c.Params("tenantId"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// UpdateServices godoc
// @Summary      Reemplazar entitlements de un tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        tenantId  path  string  true  "Tenant ID"
// @Param        body  body  dto.UpdateServicesRequest  true  "Sets completos de módulos y roles"
// @Success      200   {object}  dto.AckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /master/tenants/{tenantId}/services [put]
func (h *TenantHandler) UpdateServices(c *fiber.Ctx) error {
	var in dto.UpdateServicesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateEntitlements(c.Context(), c.Params("tenantId"), in); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// UpdateSubscription godoc
// @Summary      Actualizar la suscripción de un tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        tenantId  path  string  true  "Tenant ID"
// @Param        body  body  dto.UpdateSubscriptionRequest  true  "Cupos, fechas y tarifa"
// @Success      200   {object}  dto.AckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /master/tenants/{tenantId}/subscription [put]
func (h *TenantHandler) UpdateSubscription(c *fiber.Ctx) error {
	var in dto.UpdateSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateSubscription(c.Context(), c.Params("tenantId"), in); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.AckResponse{OK: true})
}

// Delete godoc
// @Summary      Eliminar un tenant (definitivo)
// @Tags         tenants
// @Produce      json
// @Param        tenantId  path  string  true  "Tenant ID"
// @Success      200  {object}  dto.AckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /master/tenants/{tenantId} [delete]
func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("tenantId")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.AckResponse{OK: true})
}
