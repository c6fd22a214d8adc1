package entity

import "time"

// Roles de operador de la consola master.
const (
	RoleMasterAdmin = "MASTER_ADMIN"
)

// MasterUser es una cuenta de operador de esta consola (no pertenece a ningún tenant).
type MasterUser struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca se serializa hacia el cliente
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
