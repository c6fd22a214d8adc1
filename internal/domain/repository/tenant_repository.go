package repository

import (
	"context"

	"github.com/tu-usuario/master-console/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// La implementación vive en infrastructure.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByTenantID(ctx context.Context, tenantID string) (*entity.Tenant, error)
	List(ctx context.Context) ([]*entity.Tenant, error)
	// ReplaceEntitlements sustituye los sets completos de módulos y roles (sin merge).
	ReplaceEntitlements(ctx context.Context, tenantID string, ent entity.Entitlement) error
	// UpdateSubscription actualiza solo los campos de suscripción (cupos, fechas, tarifa).
	UpdateSubscription(ctx context.Context, tenant *entity.Tenant) error
	Delete(ctx context.Context, tenantID string) error
}
