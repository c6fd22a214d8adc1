package dto

import "time"

// CreateMasterUserRequest entrada para crear un operador de consola.
// ConfirmPassword es solo de transporte: se valida y se descarta.
type CreateMasterUserRequest struct {
	Username        string   `json:"username" validate:"required,min=3,max=100"`
	Password        string   `json:"password" validate:"required,min=8"`
	ConfirmPassword string   `json:"confirm_password" validate:"required"`
	Roles           []string `json:"roles"`
}

// UpdateMasterUserRequest entrada para editar un operador.
// Password vacío significa "no cambiar la contraseña".
type UpdateMasterUserRequest struct {
	Username        string   `json:"username" validate:"required,min=3,max=100"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirm_password"`
	Roles           []string `json:"roles"`
}

// MasterUserResponse salida de un operador (sin hash de contraseña).
type MasterUserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MasterUserListResponse salida del listado de operadores.
type MasterUserListResponse struct {
	Items []MasterUserResponse `json:"items"`
	Total int                  `json:"total"`
}

// LoginRequest entrada para login de operador.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y el operador autenticado.
type LoginResponse struct {
	Token string             `json:"token"`
	User  MasterUserResponse `json:"user"`
}
