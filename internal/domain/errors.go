package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP mapean
// cada sentinel a un código de error estable; nunca se inspecciona el texto.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrTenantNotFound  = errors.New("tenant no encontrado")
	ErrRequestNotFound = errors.New("solicitud de tenant no encontrada")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrDuplicateTenant = errors.New("el tenant id ya está registrado")
	ErrDuplicateUser   = errors.New("el username ya está registrado")
	ErrValidation      = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
)
