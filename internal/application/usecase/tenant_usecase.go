package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/application/event"
	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
	"github.com/tu-usuario/master-console/pkg/logger"
)

// entitlementCache contrato mínimo de la caché de entitlements (Redis).
// Get devuelve (nil, nil) en miss. La interfaz local evita acoplar el caso de
// uso a la infraestructura concreta.
type entitlementCache interface {
	Get(ctx context.Context, tenantID string) (*entity.Entitlement, error)
	Set(ctx context.Context, tenantID string, ent entity.Entitlement) error
	Invalidate(ctx context.Context, tenantID string) error
}

// txRunner contrato mínimo para ejecutar el reemplazo de entitlements en
// transacción. Lo implementa postgres.TxRunner.
type txRunner interface {
	Run(ctx context.Context, fn func(tenantRepo repository.TenantRepository) error) error
}

// TenantUseCase reglas de negocio del directorio de tenants: listado, lectura,
// edición de entitlements y suscripción, y baja definitiva.
type TenantUseCase struct {
	repo   repository.TenantRepository
	tx     txRunner
	cache  entitlementCache // puede ser nil (caché deshabilitada)
	events event.Publisher
	log    *logger.Logger
}

// NewTenantUseCase construye el caso de uso del directorio de tenants.
func NewTenantUseCase(repo repository.TenantRepository, tx txRunner, cache entitlementCache, events event.Publisher, log *logger.Logger) *TenantUseCase {
	return &TenantUseCase{repo: repo, tx: tx, cache: cache, events: events, log: log}
}

// List devuelve el directorio completo de tenants (sin paginación).
func (uc *TenantUseCase) List(ctx context.Context) (*dto.TenantListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTenantResponse(t))
	}
	return &dto.TenantListResponse{Items: items, Total: len(items)}, nil
}

// GetByTenantID obtiene un tenant por su id.
func (uc *TenantUseCase) GetByTenantID(ctx context.Context, tenantID string) (*dto.TenantResponse, error) {
	t, err := uc.repo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}
	out := toTenantResponse(t)
	return &out, nil
}

// GetEntitlements devuelve los módulos y roles concedidos a un tenant.
// Lectura read-through: primero la caché, en miss consulta la DB y repuebla.
func (uc *TenantUseCase) GetEntitlements(ctx context.Context, tenantID string) (*dto.EntitlementResponse, error) {
	if uc.cache != nil {
		ent, err := uc.cache.Get(ctx, tenantID)
		if err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("caché de entitlements no disponible")
		} else if ent != nil {
			return &dto.EntitlementResponse{TenantID: tenantID, ServiceModules: ent.ServiceModules, AdminRoles: ent.AdminRoles}, nil
		}
	}

	t, err := uc.repo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}

	ent := entity.Entitlement{ServiceModules: t.ServiceModules, AdminRoles: t.AdminRoles}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, tenantID, ent); err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo poblar la caché de entitlements")
		}
	}
	return &dto.EntitlementResponse{TenantID: tenantID, ServiceModules: ent.ServiceModules, AdminRoles: ent.AdminRoles}, nil
}

// UpdateEntitlements reemplaza los sets completos de módulos y roles del
// tenant. No toca ningún campo de suscripción: esa edición es una operación
// separada (UpdateSubscription).
func (uc *TenantUseCase) UpdateEntitlements(ctx context.Context, tenantID string, in dto.UpdateServicesRequest) error {
	if len(in.AdminRoles) == 0 {
		return fmt.Errorf("%w: se requiere al menos un admin role", domain.ErrValidation)
	}
	for _, r := range in.AdminRoles {
		if !entity.ValidAdminRole(r) {
			return fmt.Errorf("%w: admin role desconocido %q", domain.ErrValidation, r)
		}
	}
	for _, m := range in.ServiceModules {
		if !entity.ValidServiceModule(m) {
			return fmt.Errorf("%w: módulo de servicio desconocido %q", domain.ErrValidation, m)
		}
	}

	t, err := uc.repo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrTenantNotFound
	}

	// Deduplicar antes de insertar: el constraint único de tenant_entitlements
	// convertiría un repetido en un 500.
	ent := entity.Entitlement{
		ServiceModules: entity.DedupeSet(in.ServiceModules),
		AdminRoles:     entity.DedupeSet(in.AdminRoles),
	}
	err = uc.tx.Run(ctx, func(tenantRepo repository.TenantRepository) error {
		return tenantRepo.ReplaceEntitlements(ctx, tenantID, ent)
	})
	if err != nil {
		return err
	}

	uc.invalidateCache(ctx, tenantID)

	if err := uc.events.Publish(ctx, event.Event{
		Type:       event.TenantServicesUpdated,
		TenantID:   tenantID,
		OccurredAt: time.Now(),
	}); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo publicar tenant.services_updated")
	}
	return nil
}

// UpdateSubscription actualiza cupos, fechas y tarifa del tenant sin tocar
// sus entitlements.
func (uc *TenantUseCase) UpdateSubscription(ctx context.Context, tenantID string, in dto.UpdateSubscriptionRequest) error {
	if in.NumberOfLocations < 1 || in.NumberOfUsers < 1 || in.NumberOfStore < 1 || in.HRMSAccessCount < 1 {
		return fmt.Errorf("%w: los cupos de suscripción deben ser >= 1", domain.ErrValidation)
	}
	if in.MonthlyRate.IsNegative() {
		return fmt.Errorf("%w: monthly_rate no puede ser negativa", domain.ErrValidation)
	}
	start, err := time.Parse(dto.DateLayout, in.SubscriptionStartDate)
	if err != nil {
		return fmt.Errorf("%w: subscription_start_date inválida", domain.ErrValidation)
	}
	end, err := time.Parse(dto.DateLayout, in.SubscriptionEndDate)
	if err != nil {
		return fmt.Errorf("%w: subscription_end_date inválida", domain.ErrValidation)
	}

	t, err := uc.repo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrTenantNotFound
	}

	t.NumberOfLocations = in.NumberOfLocations
	t.NumberOfUsers = in.NumberOfUsers
	t.NumberOfStore = in.NumberOfStore
	t.HRMSAccessCount = in.HRMSAccessCount
	t.SubscriptionStartDate = start
	t.SubscriptionEndDate = end
	t.MonthlyRate = in.MonthlyRate
	t.UpdatedAt = time.Now()

	return uc.repo.UpdateSubscription(ctx, t)
}

// Delete elimina un tenant de forma definitiva. La confirmación interactiva
// es responsabilidad del frontal; acá la baja es inmediata.
func (uc *TenantUseCase) Delete(ctx context.Context, tenantID string) error {
	t, err := uc.repo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrTenantNotFound
	}
	if err := uc.repo.Delete(ctx, tenantID); err != nil {
		return err
	}

	uc.invalidateCache(ctx, tenantID)

	if err := uc.events.Publish(ctx, event.Event{
		Type:        event.TenantDeleted,
		TenantID:    tenantID,
		CompanyName: t.CompanyName,
		OccurredAt:  time.Now(),
	}); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo publicar tenant.deleted")
	}
	return nil
}

func (uc *TenantUseCase) invalidateCache(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, tenantID); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo invalidar la caché de entitlements")
	}
}

func toTenantResponse(t *entity.Tenant) dto.TenantResponse {
	return dto.TenantResponse{
		TenantID:              t.TenantID,
		CompanyName:           t.CompanyName,
		NumberOfLocations:     t.NumberOfLocations,
		NumberOfUsers:         t.NumberOfUsers,
		NumberOfStore:         t.NumberOfStore,
		HRMSAccessCount:       t.HRMSAccessCount,
		SubscriptionStartDate: t.SubscriptionStartDate.Format(dto.DateLayout),
		SubscriptionEndDate:   t.SubscriptionEndDate.Format(dto.DateLayout),
		MonthlyRate:           t.MonthlyRate,
		ServiceModules:        t.ServiceModules,
		AdminRoles:            t.AdminRoles,
		Status:                t.Status,
		Username:              t.Username,
		JDBCURL:               t.JDBCURL,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}
