package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
)

var _ repository.PendingCleanupRepository = (*PendingCleanupRepo)(nil)

// PendingCleanupRepo persistencia de los marcadores de limpieza pendiente.
type PendingCleanupRepo struct {
	q Querier
}

// NewPendingCleanupRepository construye el adaptador de limpiezas pendientes.
func NewPendingCleanupRepository(q Querier) *PendingCleanupRepo {
	return &PendingCleanupRepo{q: q}
}

// Create persiste un marcador; idempotente si el marcador ya existe.
func (r *PendingCleanupRepo) Create(ctx context.Context, pc *entity.PendingCleanup) error {
	query := `
		INSERT INTO pending_cleanups (request_id, tenant_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, pc.RequestID, pc.TenantID, pc.CreatedAt); err != nil {
		return fmt.Errorf("insert pending cleanup: %w", err)
	}
	return nil
}

// List devuelve todos los marcadores, los más antiguos primero.
func (r *PendingCleanupRepo) List(ctx context.Context) ([]*entity.PendingCleanup, error) {
	rows, err := r.q.Query(ctx,
		`SELECT request_id, tenant_id, created_at FROM pending_cleanups ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list pending cleanups: %w", err)
	}
	defer rows.Close()

	var list []*entity.PendingCleanup
	for rows.Next() {
		var pc entity.PendingCleanup
		if err := rows.Scan(&pc.RequestID, &pc.TenantID, &pc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending cleanup: %w", err)
		}
		list = append(list, &pc)
	}
	return list, rows.Err()
}

// Delete retira un marcador resuelto.
func (r *PendingCleanupRepo) Delete(ctx context.Context, requestID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pending_cleanups WHERE request_id = $1`, requestID); err != nil {
		return fmt.Errorf("delete pending cleanup: %w", err)
	}
	return nil
}
