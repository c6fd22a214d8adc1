package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/application/usecase"
)

// UserHandler CRUD de operadores de la consola.
type UserHandler struct {
	uc *usecase.MasterUserUseCase
}

// NewUserHandler construye el handler inyectando el caso de uso.
func NewUserHandler(uc *usecase.MasterUserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar operadores
// @Tags         master-users
// @Produce      json
// @Success      200  {object}  dto.MasterUserListResponse
// @Router       /master/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear un operador
// @Tags         master-users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMasterUserRequest  true  "Datos del operador"
// @Success      201   {object}  dto.MasterUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /master/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMasterUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar un operador (password vacío = sin cambio)
// @Tags         master-users
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del operador"
// @Param        body  body  dto.UpdateMasterUserRequest  true  "Datos del operador"
// @Success      200   {object}  dto.MasterUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /master/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMasterUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un operador (inmediato, sin undo)
// @Tags         master-users
// @Produce      json
// @Param        id  path  string  true  "ID del operador"
// @Success      200  {object}  dto.AckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /master/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.AckResponse{OK: true})
}
