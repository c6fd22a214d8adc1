package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
)

// Asegura que TenantRepo implementa repository.TenantRepository.
var _ repository.TenantRepository = (*TenantRepo)(nil)

// Kinds de la tabla tenant_entitlements.
const (
	kindServiceModule = "SERVICE_MODULE"
	kindAdminRole     = "ADMIN_ROLE"
)

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL.
// Usable con pool o tx (Querier).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia de tenants.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste el tenant y sus entitlements. Pensado para ejecutarse
// dentro de una transacción (TxRunner): varias filas, una sola operación.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (
			tenant_id, company_name, number_of_locations, number_of_users,
			number_of_store, hrms_access_count, subscription_start_date,
			subscription_end_date, monthly_rate, status, username,
			admin_password_hash, jdbc_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.TenantID, t.CompanyName, t.NumberOfLocations, t.NumberOfUsers,
		t.NumberOfStore, t.HRMSAccessCount, t.SubscriptionStartDate,
		t.SubscriptionEndDate, t.MonthlyRate, t.Status, t.Username,
		t.AdminPasswordHash, t.JDBCURL, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTenant
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return r.insertEntitlements(ctx, t.TenantID, entity.Entitlement{
		ServiceModules: t.ServiceModules,
		AdminRoles:     t.AdminRoles,
	})
}

// GetByTenantID obtiene un tenant con sus entitlements; nil si no existe.
func (r *TenantRepo) GetByTenantID(ctx context.Context, tenantID string) (*entity.Tenant, error) {
	query := `
		SELECT tenant_id, company_name, number_of_locations, number_of_users,
		       number_of_store, hrms_access_count, subscription_start_date,
		       subscription_end_date, monthly_rate, status, username,
		       admin_password_hash, jdbc_url, created_at, updated_at
		FROM tenants WHERE tenant_id = $1`
	var t entity.Tenant
	err := r.q.QueryRow(ctx, query, tenantID).Scan(
		&t.TenantID, &t.CompanyName, &t.NumberOfLocations, &t.NumberOfUsers,
		&t.NumberOfStore, &t.HRMSAccessCount, &t.SubscriptionStartDate,
		&t.SubscriptionEndDate, &t.MonthlyRate, &t.Status, &t.Username,
		&t.AdminPasswordHash, &t.JDBCURL, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	if err := r.loadEntitlements(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List devuelve el directorio completo, entitlements incluidos (dos queries,
// agrupado en memoria; el set de tenants de una instalación es chico).
func (r *TenantRepo) List(ctx context.Context) ([]*entity.Tenant, error) {
	query := `
		SELECT tenant_id, company_name, number_of_locations, number_of_users,
		       number_of_store, hrms_access_count, subscription_start_date,
		       subscription_end_date, monthly_rate, status, username,
		       admin_password_hash, jdbc_url, created_at, updated_at
		FROM tenants ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var list []*entity.Tenant
	byID := make(map[string]*entity.Tenant)
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(
			&t.TenantID, &t.CompanyName, &t.NumberOfLocations, &t.NumberOfUsers,
			&t.NumberOfStore, &t.HRMSAccessCount, &t.SubscriptionStartDate,
			&t.SubscriptionEndDate, &t.MonthlyRate, &t.Status, &t.Username,
			&t.AdminPasswordHash, &t.JDBCURL, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, &t)
		byID[t.TenantID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entQuery := `SELECT tenant_id, kind, value FROM tenant_entitlements ORDER BY created_at`
	entRows, err := r.q.Query(ctx, entQuery)
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	defer entRows.Close()
	for entRows.Next() {
		var tenantID, kind, value string
		if err := entRows.Scan(&tenantID, &kind, &value); err != nil {
			return nil, fmt.Errorf("scan entitlement: %w", err)
		}
		t, ok := byID[tenantID]
		if !ok {
			continue
		}
		switch kind {
		case kindServiceModule:
			t.ServiceModules = append(t.ServiceModules, value)
		case kindAdminRole:
			t.AdminRoles = append(t.AdminRoles, value)
		}
	}
	return list, entRows.Err()
}

// ReplaceEntitlements sustituye los dos sets completos del tenant.
// Debe ejecutarse dentro de una transacción (TxRunner).
func (r *TenantRepo) ReplaceEntitlements(ctx context.Context, tenantID string, ent entity.Entitlement) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM tenant_entitlements WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("clear entitlements: %w", err)
	}
	if err := r.insertEntitlements(ctx, tenantID, ent); err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `UPDATE tenants SET updated_at = now() WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("touch tenant: %w", err)
	}
	return nil
}

// UpdateSubscription actualiza solo los campos de suscripción.
func (r *TenantRepo) UpdateSubscription(ctx context.Context, t *entity.Tenant) error {
	query := `
		UPDATE tenants SET
			number_of_locations = $2, number_of_users = $3, number_of_store = $4,
			hrms_access_count = $5, subscription_start_date = $6,
			subscription_end_date = $7, monthly_rate = $8, updated_at = $9
		WHERE tenant_id = $1`
	cmd, err := r.q.Exec(ctx, query,
		t.TenantID, t.NumberOfLocations, t.NumberOfUsers, t.NumberOfStore,
		t.HRMSAccessCount, t.SubscriptionStartDate, t.SubscriptionEndDate,
		t.MonthlyRate, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// Delete elimina un tenant; los entitlements caen por ON DELETE CASCADE.
func (r *TenantRepo) Delete(ctx context.Context, tenantID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tenants WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *TenantRepo) insertEntitlements(ctx context.Context, tenantID string, ent entity.Entitlement) error {
	const query = `INSERT INTO tenant_entitlements (tenant_id, kind, value) VALUES ($1, $2, $3)`
	for _, m := range ent.ServiceModules {
		if _, err := r.q.Exec(ctx, query, tenantID, kindServiceModule, m); err != nil {
			return fmt.Errorf("insert service module %s: %w", m, err)
		}
	}
	for _, role := range ent.AdminRoles {
		if _, err := r.q.Exec(ctx, query, tenantID, kindAdminRole, role); err != nil {
			return fmt.Errorf("insert admin role %s: %w", role, err)
		}
	}
	return nil
}

func (r *TenantRepo) loadEntitlements(ctx context.Context, t *entity.Tenant) error {
	rows, err := r.q.Query(ctx,
		`SELECT kind, value FROM tenant_entitlements WHERE tenant_id = $1 ORDER BY created_at`, t.TenantID)
	if err != nil {
		return fmt.Errorf("get entitlements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return fmt.Errorf("scan entitlement: %w", err)
		}
		switch kind {
		case kindServiceModule:
			t.ServiceModules = append(t.ServiceModules, value)
		case kindAdminRole:
			t.AdminRoles = append(t.AdminRoles, value)
		}
	}
	return rows.Err()
}
