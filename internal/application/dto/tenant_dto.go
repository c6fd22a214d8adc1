package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProvisionTenantRequest entrada para aprovisionar un tenant completo.
// Las fechas van como "2006-01-02"; si faltan, el caso de uso aplica los
// defaults (inicio hoy, fin exactamente un año calendario después).
type ProvisionTenantRequest struct {
	TenantID              string          `json:"tenant_id" validate:"required"`
	CompanyName           string          `json:"company_name" validate:"required"`
	AdminEmail            string          `json:"admin_email" validate:"required,email"`
	AdminPassword         string          `json:"admin_password" validate:"required,min=8"`
	NumberOfLocations     int             `json:"number_of_locations" validate:"omitempty,min=1"`
	NumberOfUsers         int             `json:"number_of_users" validate:"omitempty,min=1"`
	NumberOfStore         int             `json:"number_of_store" validate:"omitempty,min=1"`
	HRMSAccessCount       int             `json:"hrms_access_count" validate:"omitempty,min=1"`
	SubscriptionStartDate string          `json:"subscription_start_date" validate:"omitempty,datetime=2006-01-02"`
	SubscriptionEndDate   string          `json:"subscription_end_date" validate:"omitempty,datetime=2006-01-02"`
	MonthlyRate           decimal.Decimal `json:"monthly_rate"`
	ServiceModules        []string        `json:"service_modules"`
	AdminRoles            []string        `json:"admin_roles" validate:"required,min=1"`
}

// ProvisionTenantResponse salida del aprovisionamiento. CleanupPending indica
// que la solicitud pendiente asociada no pudo borrarse y quedó marcada para reintento.
type ProvisionTenantResponse struct {
	Tenant         TenantResponse `json:"tenant"`
	CleanupPending bool           `json:"cleanup_pending"`
}

// UpdateServicesRequest entrada para reemplazar los entitlements de un tenant.
// Los sets se sustituyen completos: lo que no venga, deja de estar concedido.
type UpdateServicesRequest struct {
	ServiceModules []string `json:"service_modules"`
	AdminRoles     []string `json:"admin_roles" validate:"required,min=1"`
}

// UpdateSubscriptionRequest entrada para actualizar solo los campos de
// suscripción de un tenant (operación separada de los entitlements).
type UpdateSubscriptionRequest struct {
	NumberOfLocations     int             `json:"number_of_locations" validate:"required,min=1"`
	NumberOfUsers         int             `json:"number_of_users" validate:"required,min=1"`
	NumberOfStore         int             `json:"number_of_store" validate:"required,min=1"`
	HRMSAccessCount       int             `json:"hrms_access_count" validate:"required,min=1"`
	SubscriptionStartDate string          `json:"subscription_start_date" validate:"required,datetime=2006-01-02"`
	SubscriptionEndDate   string          `json:"subscription_end_date" validate:"required,datetime=2006-01-02"`
	MonthlyRate           decimal.Decimal `json:"monthly_rate"`
}

// TenantResponse salida de un tenant.
type TenantResponse struct {
	TenantID              string          `json:"tenant_id"`
	CompanyName           string          `json:"company_name"`
	NumberOfLocations     int             `json:"number_of_locations"`
	NumberOfUsers         int             `json:"number_of_users"`
	NumberOfStore         int             `json:"number_of_store"`
	HRMSAccessCount       int             `json:"hrms_access_count"`
	SubscriptionStartDate string          `json:"subscription_start_date"`
	SubscriptionEndDate   string          `json:"subscription_end_date"`
	MonthlyRate           decimal.Decimal `json:"monthly_rate"`
	ServiceModules        []string        `json:"service_modules"`
	AdminRoles            []string        `json:"admin_roles"`
	Status                string          `json:"status"`
	Username              string          `json:"username"`
	JDBCURL               string          `json:"jdbc_url"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TenantListResponse salida del listado completo (sin paginación: el frontal
// de administración siempre consume el set entero).
type TenantListResponse struct {
	Items []TenantResponse `json:"items"`
	Total int              `json:"total"`
}

// EntitlementResponse salida del par (módulos, roles) de un tenant.
type EntitlementResponse struct {
	TenantID       string   `json:"tenant_id"`
	ServiceModules []string `json:"service_modules"`
	AdminRoles     []string `json:"admin_roles"`
}
