package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/application/event"
	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
	"github.com/tu-usuario/master-console/pkg/logger"
	"github.com/tu-usuario/master-console/pkg/metrics"
)

// Defaults de suscripción cuando el payload no los trae.
const (
	defaultLocations  = 1
	defaultUsers      = 5
	defaultStores     = 1
	defaultHRMSAccess = 5
)

// ProvisionUseCase aprovisiona un tenant completo en una sola operación:
// valida, aplica defaults, crea el tenant con sus entitlements en una
// transacción y después ejecuta la limpieza best-effort de la solicitud
// pendiente que coincida con el tenant id.
type ProvisionUseCase struct {
	tx          TxRunner
	tenantRepo  repository.TenantRepository
	requestRepo repository.TenantRequestRepository
	cleanupRepo repository.PendingCleanupRepository
	events      event.Publisher
	log         *logger.Logger
	dbAddr      string // host:port que los servicios de producto usan para el descriptor JDBC

	now func() time.Time // inyectable en tests
}

// NewProvisionUseCase construye el caso de uso de aprovisionamiento.
func NewProvisionUseCase(
	tx TxRunner,
	tenantRepo repository.TenantRepository,
	requestRepo repository.TenantRequestRepository,
	cleanupRepo repository.PendingCleanupRepository,
	events event.Publisher,
	log *logger.Logger,
	dbAddr string,
) *ProvisionUseCase {
	return &ProvisionUseCase{
		tx:          tx,
		tenantRepo:  tenantRepo,
		requestRepo: requestRepo,
		cleanupRepo: cleanupRepo,
		events:      events,
		log:         log,
		dbAddr:      dbAddr,
		now:         time.Now,
	}
}

// Provision crea el tenant. Orden garantizado en el camino feliz:
// crear tenant (tx) → borrar solicitud coincidente (best-effort) → retornar.
// Si el borrado de la solicitud falla, se persiste un PendingCleanup y el
// aprovisionamiento se reporta igualmente como exitoso con CleanupPending=true.
func (uc *ProvisionUseCase) Provision(ctx context.Context, in dto.ProvisionTenantRequest) (*dto.ProvisionTenantResponse, error) {
	tenant, err := uc.buildTenant(in)
	if err != nil {
		metrics.ProvisioningTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	// Verificación de unicidad previa: un duplicado es el fallo esperado
	// dominante y merece un error de conflicto explícito, no un 500.
	existing, err := uc.tenantRepo.GetByTenantID(ctx, tenant.TenantID)
	if err != nil {
		metrics.ProvisioningTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if existing != nil {
		metrics.ProvisioningTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrDuplicateTenant
	}

	err = uc.tx.Run(ctx, func(tenantRepo repository.TenantRepository) error {
		return tenantRepo.Create(ctx, tenant)
	})
	if err != nil {
		// La carrera entre el check previo y el INSERT la resuelve el
		// constraint único; el repo la traduce a ErrDuplicateTenant.
		if errors.Is(err, domain.ErrDuplicateTenant) {
			metrics.ProvisioningTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.ProvisioningTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	metrics.ProvisioningTotal.WithLabelValues("success").Inc()

	cleanupPending := uc.cleanupMatchingRequest(ctx, tenant.TenantID)

	if err := uc.events.Publish(ctx, event.Event{
		Type:        event.TenantProvisioned,
		TenantID:    tenant.TenantID,
		CompanyName: tenant.CompanyName,
		OccurredAt:  uc.now(),
	}); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenant.TenantID).Msg("no se pudo publicar tenant.provisioned")
	}

	return &dto.ProvisionTenantResponse{
		Tenant:         toTenantResponse(tenant),
		CleanupPending: cleanupPending,
	}, nil
}

// cleanupMatchingRequest borra la solicitud pendiente cuyo tenant id coincide
// con el recién aprovisionado. Devuelve true si el borrado falló y quedó
// marcador de limpieza pendiente.
func (uc *ProvisionUseCase) cleanupMatchingRequest(ctx context.Context, tenantID string) bool {
	req, err := uc.requestRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo buscar la solicitud coincidente")
		return false
	}
	if req == nil {
		return false // aprovisionamiento directo, sin solicitud previa
	}

	if err := uc.requestRepo.Delete(ctx, req.ID); err != nil {
		uc.log.Warn().Err(err).
			Str("tenant_id", tenantID).
			Str("request_id", req.ID).
			Msg("falló el borrado de la solicitud aprobada; queda limpieza pendiente")
		marker := &entity.PendingCleanup{RequestID: req.ID, TenantID: tenantID, CreatedAt: uc.now()}
		if cerr := uc.cleanupRepo.Create(ctx, marker); cerr != nil {
			uc.log.Error().Err(cerr).Str("request_id", req.ID).Msg("no se pudo persistir el marcador de limpieza")
		}
		metrics.CleanupPendingTotal.Inc()
		return true
	}
	return false
}

// RetryCleanups reintenta el borrado de todas las solicitudes con limpieza
// pendiente. Devuelve cuántas se resolvieron y cuántas siguen pendientes.
func (uc *ProvisionUseCase) RetryCleanups(ctx context.Context) (*dto.CleanupRetryResponse, error) {
	markers, err := uc.cleanupRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.CleanupRetryResponse{}
	for _, m := range markers {
		if err := uc.requestRepo.Delete(ctx, m.RequestID); err != nil && !errors.Is(err, domain.ErrRequestNotFound) {
			uc.log.Warn().Err(err).Str("request_id", m.RequestID).Msg("reintento de limpieza fallido")
			out.Remaining++
			continue
		}
		// ErrRequestNotFound cuenta como resuelto: alguien ya la borró.
		if err := uc.cleanupRepo.Delete(ctx, m.RequestID); err != nil {
			uc.log.Warn().Err(err).Str("request_id", m.RequestID).Msg("no se pudo retirar el marcador de limpieza")
			out.Remaining++
			continue
		}
		metrics.CleanupRetriedTotal.Inc()
		out.Retried++
	}
	return out, nil
}

// buildTenant valida el payload, aplica defaults y materializa la entidad.
// adminRoles vacío falla acá mismo, antes de tocar cualquier repositorio.
func (uc *ProvisionUseCase) buildTenant(in dto.ProvisionTenantRequest) (*entity.Tenant, error) {
	if in.TenantID == "" || in.CompanyName == "" || in.AdminEmail == "" || in.AdminPassword == "" {
		return nil, fmt.Errorf("%w: tenant_id, company_name, admin_email y admin_password son requeridos", domain.ErrValidation)
	}
	if !entity.ValidTenantID(in.TenantID) {
		return nil, fmt.Errorf("%w: tenant_id debe ser minúsculas/dígitos/guiones (3-31 chars)", domain.ErrValidation)
	}
	if len(in.AdminRoles) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos un admin role", domain.ErrValidation)
	}
	for _, r := range in.AdminRoles {
		if !entity.ValidAdminRole(r) {
			return nil, fmt.Errorf("%w: admin role desconocido %q", domain.ErrValidation, r)
		}
	}
	for _, m := range in.ServiceModules {
		if !entity.ValidServiceModule(m) {
			return nil, fmt.Errorf("%w: módulo de servicio desconocido %q", domain.ErrValidation, m)
		}
	}
	// Cupo en 0 = no enviado, aplica el default; solo lo negativo es inválido.
	if in.NumberOfLocations < 0 || in.NumberOfUsers < 0 || in.NumberOfStore < 0 || in.HRMSAccessCount < 0 {
		return nil, fmt.Errorf("%w: los cupos de suscripción no pueden ser negativos", domain.ErrValidation)
	}
	if in.MonthlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: monthly_rate no puede ser negativa", domain.ErrValidation)
	}

	start, end, err := uc.subscriptionWindow(in.SubscriptionStartDate, in.SubscriptionEndDate)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	return &entity.Tenant{
		TenantID:              in.TenantID,
		CompanyName:           in.CompanyName,
		NumberOfLocations:     orDefault(in.NumberOfLocations, defaultLocations),
		NumberOfUsers:         orDefault(in.NumberOfUsers, defaultUsers),
		NumberOfStore:         orDefault(in.NumberOfStore, defaultStores),
		HRMSAccessCount:       orDefault(in.HRMSAccessCount, defaultHRMSAccess),
		SubscriptionStartDate: start,
		SubscriptionEndDate:   end,
		MonthlyRate:           in.MonthlyRate,
		ServiceModules:        entity.DedupeSet(in.ServiceModules),
		AdminRoles:            entity.DedupeSet(in.AdminRoles),
		Status:                entity.TenantStatusActive,
		Username:              in.AdminEmail,
		AdminPasswordHash:     string(hash),
		JDBCURL:               fmt.Sprintf("jdbc:postgresql://%s/tenant_%s", uc.dbAddr, strings.ReplaceAll(in.TenantID, "-", "_")),
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// subscriptionWindow parsea las fechas del payload o aplica los defaults:
// inicio hoy, fin exactamente un año calendario después del inicio.
func (uc *ProvisionUseCase) subscriptionWindow(startStr, endStr string) (time.Time, time.Time, error) {
	var start time.Time
	if startStr == "" {
		y, m, d := uc.now().Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	} else {
		var err error
		start, err = time.Parse(dto.DateLayout, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: subscription_start_date inválida", domain.ErrValidation)
		}
	}

	var end time.Time
	if endStr == "" {
		end = start.AddDate(1, 0, 0)
	} else {
		var err error
		end, err = time.Parse(dto.DateLayout, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: subscription_end_date inválida", domain.ErrValidation)
		}
	}
	if end.Before(start) {
		uc.log.Warn().Str("start", startStr).Str("end", endStr).Msg("ventana de suscripción con fin anterior al inicio")
	}
	return start, end, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
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
