package dto

import "time"

// CreateTenantRequestInput entrada del alta self-service de una solicitud.
// El password llega en claro por el canal TLS y se hashea antes de persistir.
type CreateTenantRequestInput struct {
	TenantID      string `json:"tenant_id" validate:"required"`
	CompanyName   string `json:"company_name" validate:"required"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
}

// TenantRequestResponse salida de una solicitud pendiente (sin credenciales).
type TenantRequestResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	CompanyName string    `json:"company_name"`
	AdminEmail  string    `json:"admin_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// TenantRequestListResponse salida del listado de solicitudes pendientes.
type TenantRequestListResponse struct {
	Items []TenantRequestResponse `json:"items"`
	Total int                     `json:"total"`
}

// CleanupRetryResponse resultado del reintento de limpiezas pendientes.
type CleanupRetryResponse struct {
	Retried   int `json:"retried"`
	Remaining int `json:"remaining"`
}
