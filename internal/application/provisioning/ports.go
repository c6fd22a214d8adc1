package provisioning

import (
	"context"

	"github.com/tu-usuario/master-console/internal/domain/repository"
)

// TxRunner ejecuta el callback con un TenantRepository atado a una transacción
// PostgreSQL. El alta del tenant y de sus entitlements es atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(tenantRepo repository.TenantRepository) error) error
}
