package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
)

var _ repository.TenantRequestRepository = (*TenantRequestRepo)(nil)

// TenantRequestRepo implementación de TenantRequestRepository sobre PostgreSQL.
type TenantRequestRepo struct {
	q Querier
}

// NewTenantRequestRepository construye el adaptador de solicitudes pendientes.
func NewTenantRequestRepository(q Querier) *TenantRequestRepo {
	return &TenantRequestRepo{q: q}
}

// Create persiste una solicitud nueva.
func (r *TenantRequestRepo) Create(ctx context.Context, req *entity.TenantRequest) error {
	query := `
		INSERT INTO tenant_requests (id, tenant_id, company_name, admin_email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.TenantID, req.CompanyName, req.AdminEmail, req.PasswordHash, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tenant request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por id; nil si no existe.
func (r *TenantRequestRepo) GetByID(ctx context.Context, id string) (*entity.TenantRequest, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByTenantID obtiene la solicitud pendiente por el tenant id deseado; nil si no hay.
// Si hubiera más de una (datos legacy), gana la más antigua.
func (r *TenantRequestRepo) GetByTenantID(ctx context.Context, tenantID string) (*entity.TenantRequest, error) {
	return r.getOne(ctx, `WHERE tenant_id = $1 ORDER BY created_at LIMIT 1`, tenantID)
}

func (r *TenantRequestRepo) getOne(ctx context.Context, where string, arg any) (*entity.TenantRequest, error) {
	query := `
		SELECT id, tenant_id, company_name, admin_email, password_hash, created_at
		FROM tenant_requests ` + where
	var req entity.TenantRequest
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&req.ID, &req.TenantID, &req.CompanyName, &req.AdminEmail, &req.PasswordHash, &req.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant request: %w", err)
	}
	return &req, nil
}

// List devuelve todas las solicitudes pendientes, las más nuevas primero.
func (r *TenantRequestRepo) List(ctx context.Context) ([]*entity.TenantRequest, error) {
	query := `
		SELECT id, tenant_id, company_name, admin_email, password_hash, created_at
		FROM tenant_requests ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenant requests: %w", err)
	}
	defer rows.Close()

	var list []*entity.TenantRequest
	for rows.Next() {
		var req entity.TenantRequest
		if err := rows.Scan(&req.ID, &req.TenantID, &req.CompanyName, &req.AdminEmail, &req.PasswordHash, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant request: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}

// Delete elimina una solicitud por id. ErrRequestNotFound si ya no existe.
func (r *TenantRequestRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tenant_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tenant request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}
