package repository

import (
	"context"

	"github.com/tu-usuario/master-console/internal/domain/entity"
)

// TenantRequestRepository puerto de persistencia para solicitudes pendientes.
type TenantRequestRepository interface {
	Create(ctx context.Context, req *entity.TenantRequest) error
	GetByID(ctx context.Context, id string) (*entity.TenantRequest, error)
	// GetByTenantID busca una solicitud pendiente por el tenant id deseado.
	GetByTenantID(ctx context.Context, tenantID string) (*entity.TenantRequest, error)
	List(ctx context.Context) ([]*entity.TenantRequest, error)
	Delete(ctx context.Context, id string) error
}

// PendingCleanupRepository puerto para los marcadores de limpieza pendiente:
// solicitudes cuyo borrado post-aprovisionamiento falló y debe reintentarse.
type PendingCleanupRepository interface {
	Create(ctx context.Context, pc *entity.PendingCleanup) error
	List(ctx context.Context) ([]*entity.PendingCleanup, error)
	Delete(ctx context.Context, requestID string) error
}
