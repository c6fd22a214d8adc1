package entity

import "time"

// TenantRequest es una solicitud de alta self-service pendiente de aprobación.
// Nunca se muta: se consume al aprobarla (aprovisionamiento) o al rechazarla.
type TenantRequest struct {
	ID           string
	TenantID     string // deseado; la unicidad se verifica recién al aprovisionar
	CompanyName  string
	AdminEmail   string
	PasswordHash string // bcrypt; el password en claro solo vive en el request HTTP
	CreatedAt    time.Time
}

// PendingCleanup marca una solicitud que sobrevivió a un aprovisionamiento
// exitoso porque su borrado best-effort falló. Se reintenta explícitamente.
type PendingCleanup struct {
	RequestID string
	TenantID  string
	CreatedAt time.Time
}
