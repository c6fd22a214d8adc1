package event

import (
	"context"
	"time"
)

// Tipos de evento de ciclo de vida de un tenant.
const (
	TenantProvisioned     = "tenant.provisioned"
	TenantDeleted         = "tenant.deleted"
	TenantServicesUpdated = "tenant.services_updated"
)

// Event notificación de ciclo de vida publicada hacia los servicios de producto
// (HRMS, POS, CRM) para que sincronicen sus recursos por tenant.
type Event struct {
	Type        string    `json:"type"`
	TenantID    string    `json:"tenant_id"`
	CompanyName string    `json:"company_name,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher publica eventos de ciclo de vida. La publicación es best-effort:
// un fallo se registra pero no revierte la operación que lo originó.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}
