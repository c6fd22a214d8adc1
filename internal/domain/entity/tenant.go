package entity

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un Tenant.
const (
	TenantStatusActive    = "ACTIVE"
	TenantStatusSuspended = "SUSPENDED"
	TenantStatusInactive  = "INACTIVE"
)

// Módulos de servicio contratables por un tenant (deben coincidir con el CHECK de tenant_entitlements).
const (
	ModuleHRMSCore      = "HRMS_CORE"
	ModuleHRMSPayroll   = "HRMS_PAYROLL"
	ModulePOS           = "POS"
	ModuleCRM           = "CRM"
	ModuleMasterReports = "MASTER_REPORTS"
)

// Roles de administración disponibles dentro de un tenant.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleHR         = "HR"
	RoleAccounts   = "ACCOUNTS"
	RolePOSAdmin   = "POS_ADMIN"
	RolePOSCashier = "POS_CASHIER"
	RoleSales      = "SALES"
)

// ValidServiceModule informa si el valor pertenece al catálogo de módulos.
func ValidServiceModule(m string) bool {
	switch m {
	case ModuleHRMSCore, ModuleHRMSPayroll, ModulePOS, ModuleCRM, ModuleMasterReports:
		return true
	}
	return false
}

// ValidAdminRole informa si el valor pertenece al catálogo de roles.
func ValidAdminRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleHR, RoleAccounts, RolePOSAdmin, RolePOSCashier, RoleSales:
		return true
	}
	return false
}

// tenantIDPattern formato exigido al tenant id: se usa como nombre de base de
// datos del tenant, así que queda restringido a minúsculas, dígitos y guiones.
var tenantIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{2,30}$`)

// ValidTenantID informa si el valor cumple el formato de tenant id.
// Se valida tanto en el intake self-service como en el aprovisionamiento.
func ValidTenantID(id string) bool {
	return tenantIDPattern.MatchString(id)
}

// DedupeSet conserva el orden de llegada y elimina repetidos; los checklists
// del frontal ya no los generan, pero la API acepta clientes arbitrarios y
// tenant_entitlements tiene constraint único por (tenant_id, kind, value).
func DedupeSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Tenant representa una organización cliente aprovisionada.
// TenantID es inmutable después de la creación; JDBCURL lo asigna el
// aprovisionamiento y es de solo lectura para el resto de la aplicación.
type Tenant struct {
	TenantID              string
	CompanyName           string
	NumberOfLocations     int
	NumberOfUsers         int
	NumberOfStore         int
	HRMSAccessCount       int
	SubscriptionStartDate time.Time
	SubscriptionEndDate   time.Time
	MonthlyRate           decimal.Decimal
	ServiceModules        []string // ver constantes Module*
	AdminRoles            []string // ver constantes Role*
	Status                string   // ACTIVE, SUSPENDED, INACTIVE
	Username              string
	AdminPasswordHash     string // bcrypt; solo lo escribe el aprovisionamiento
	JDBCURL               string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Entitlement par (módulos de servicio, roles de administración) de un tenant.
type Entitlement struct {
	ServiceModules []string
	AdminRoles     []string
}
