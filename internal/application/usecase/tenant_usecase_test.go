package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/application/event"
	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
	"github.com/tu-usuario/master-console/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (compartidos por los tests del paquete)
// ──────────────────────────────────────────────────────────────────────────────

type memTenantRepo struct {
	tenants  map[string]*entity.Tenant
	getCalls int
}

func newMemTenantRepo(seed ...*entity.Tenant) *memTenantRepo {
	r := &memTenantRepo{tenants: make(map[string]*entity.Tenant)}
	for _, t := range seed {
		r.tenants[t.TenantID] = t
	}
	return r
}

func (r *memTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	if _, ok := r.tenants[t.TenantID]; ok {
		return domain.ErrDuplicateTenant
	}
	r.tenants[t.TenantID] = t
	return nil
}

func (r *memTenantRepo) GetByTenantID(_ context.Context, tenantID string) (*entity.Tenant, error) {
	r.getCalls++
	return r.tenants[tenantID], nil
}

func (r *memTenantRepo) List(_ context.Context) ([]*entity.Tenant, error) {
	out := make([]*entity.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTenantRepo) ReplaceEntitlements(_ context.Context, tenantID string, ent entity.Entitlement) error {
	t, ok := r.tenants[tenantID]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.ServiceModules = ent.ServiceModules
	t.AdminRoles = ent.AdminRoles
	return nil
}

func (r *memTenantRepo) UpdateSubscription(_ context.Context, t *entity.Tenant) error {
	if _, ok := r.tenants[t.TenantID]; !ok {
		return domain.ErrTenantNotFound
	}
	r.tenants[t.TenantID] = t
	return nil
}

func (r *memTenantRepo) Delete(_ context.Context, tenantID string) error {
	if _, ok := r.tenants[tenantID]; !ok {
		return domain.ErrTenantNotFound
	}
	delete(r.tenants, tenantID)
	return nil
}

// memCache implementación en memoria de entitlementCache con contadores.
type memCache struct {
	data        map[string]*entity.Entitlement
	sets        int
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]*entity.Entitlement)}
}

func (c *memCache) Get(_ context.Context, tenantID string) (*entity.Entitlement, error) {
	return c.data[tenantID], nil
}

func (c *memCache) Set(_ context.Context, tenantID string, ent entity.Entitlement) error {
	c.sets++
	c.data[tenantID] = &ent
	return nil
}

func (c *memCache) Invalidate(_ context.Context, tenantID string) error {
	delete(c.data, tenantID)
	c.invalidated = append(c.invalidated, tenantID)
	return nil
}

// memTx ejecuta el callback directamente con el repo dado.
type memTx struct {
	repo repository.TenantRepository
}

func (tx *memTx) Run(_ context.Context, fn func(repository.TenantRepository) error) error {
	return fn(tx.repo)
}

type memPublisher struct {
	events []event.Event
}

func (p *memPublisher) Publish(_ context.Context, e event.Event) error {
	p.events = append(p.events, e)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func seedTenant() *entity.Tenant {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &entity.Tenant{
		TenantID:              "acme-corp",
		CompanyName:           "Acme Corp",
		NumberOfLocations:     2,
		NumberOfUsers:         10,
		NumberOfStore:         1,
		HRMSAccessCount:       5,
		SubscriptionStartDate: start,
		SubscriptionEndDate:   start.AddDate(1, 0, 0),
		MonthlyRate:           decimal.NewFromInt(300),
		ServiceModules:        []string{entity.ModuleHRMSCore, entity.ModulePOS},
		AdminRoles:            []string{entity.RoleSuperAdmin},
		Status:                entity.TenantStatusActive,
		Username:              "admin@acme.example",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests entitlements
// ──────────────────────────────────────────────────────────────────────────────

func TestGetEntitlements_MissPoblaCache(t *testing.T) {
	repo := newMemTenantRepo(seedTenant())
	cache := newMemCache()
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, cache, &memPublisher{}, testLogger())

	out, err := uc.GetEntitlements(context.Background(), "acme-corp")
	require.NoError(t, err)

	assert.Equal(t, []string{entity.ModuleHRMSCore, entity.ModulePOS}, out.ServiceModules)
	assert.Equal(t, []string{entity.RoleSuperAdmin}, out.AdminRoles)
	assert.Equal(t, 1, cache.sets, "el miss debe repoblar la caché")
}

func TestGetEntitlements_HitNoConsultaDB(t *testing.T) {
	repo := newMemTenantRepo(seedTenant())
	cache := newMemCache()
	cache.data["acme-corp"] = &entity.Entitlement{
		ServiceModules: []string{entity.ModuleCRM},
		AdminRoles:     []string{entity.RoleSales},
	}
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, cache, &memPublisher{}, testLogger())

	out, err := uc.GetEntitlements(context.Background(), "acme-corp")
	require.NoError(t, err)

	assert.Equal(t, []string{entity.ModuleCRM}, out.ServiceModules)
	assert.Zero(t, repo.getCalls, "un hit de caché no debe tocar la DB")
}

func TestGetEntitlements_SinCacheFunciona(t *testing.T) {
	repo := newMemTenantRepo(seedTenant())
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, nil, &memPublisher{}, testLogger())

	out, err := uc.GetEntitlements(context.Background(), "acme-corp")
	require.NoError(t, err)
	assert.Equal(t, []string{entity.ModuleHRMSCore, entity.ModulePOS}, out.ServiceModules)
}

func TestUpdateEntitlements_ReemplazaSetsCompletos(t *testing.T) {
	repo := newMemTenantRepo(seedTenant())
	cache := newMemCache()
	pub := &memPublisher{}
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, cache, pub, testLogger())

	err := uc.UpdateEntitlements(context.Background(), "acme-corp", dto.UpdateServicesRequest{
		ServiceModules: []string{entity.ModuleCRM},
		AdminRoles:     []string{entity.RoleSales},
	})
	require.NoError(t, err)

	got := repo.tenants["acme-corp"]
	assert.Equal(t, []string{entity.ModuleCRM}, got.ServiceModules,
		"los módulos no incluidos dejan de estar concedidos")
	assert.Equal(t, []string{entity.RoleSales}, got.AdminRoles)
	assert.Equal(t, []string{"acme-corp"}, cache.invalidated)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TenantServicesUpdated, pub.events[0].Type)
}

func TestUpdateEntitlements_DeduplicaRepetidos(t *testing.T) {
	repo := newMemTenantRepo(seedTenant())
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, nil, &memPublisher{}, testLogger())

	// Un cliente arbitrario puede mandar repetidos; el constraint único de
	// tenant_entitlements los rechazaría, así que se deduplican antes.
	err := uc.UpdateEntitlements(context.Background(), "acme-corp", dto.UpdateServicesRequest{
		ServiceModules: []string{entity.ModulePOS, entity.ModulePOS, entity.ModuleCRM},
		AdminRoles:     []string{entity.RolePOSAdmin, entity.RolePOSAdmin},
	})
	require.NoError(t, err)

	got := repo.tenants["acme-corp"]
	assert.Equal(t, []string{entity.ModulePOS, entity.ModuleCRM}, got.ServiceModules,
		"los módulos repetidos se guardan una sola vez")
	assert.Equal(t, []string{entity.RolePOSAdmin}, got.AdminRoles,
		"los roles repetidos se guardan una sola vez")
}

func TestUpdateEntitlements_SinRoles_FallaValidacion(t *testing.T) {
	repo := newMemTenantRepo(seedTenant())
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, nil, &memPublisher{}, testLogger())

	err := uc.UpdateEntitlements(context.Background(), "acme-corp", dto.UpdateServicesRequest{
		ServiceModules: []string{entity.ModuleCRM},
		AdminRoles:     nil,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.getCalls, "la validación falla antes de consultar la DB")
}

func TestUpdateEntitlements_TenantInexistente(t *testing.T) {
	repo := newMemTenantRepo()
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, nil, &memPublisher{}, testLogger())

	err := uc.UpdateEntitlements(context.Background(), "no-existe", dto.UpdateServicesRequest{
		AdminRoles: []string{entity.RoleSuperAdmin},
	})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests suscripción
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateSubscription_ActualizaSoloSuscripcion(t *testing.T) {
	repo := newMemTenantRepo(seedTenant())
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, nil, &memPublisher{}, testLogger())

	err := uc.UpdateSubscription(context.Background(), "acme-corp", dto.UpdateSubscriptionRequest{
		NumberOfLocations:     4,
		NumberOfUsers:         50,
		NumberOfStore:         3,
		HRMSAccessCount:       20,
		SubscriptionStartDate: "2024-07-01",
		SubscriptionEndDate:   "2025-07-01",
		MonthlyRate:           decimal.NewFromInt(900),
	})
	require.NoError(t, err)

	got := repo.tenants["acme-corp"]
	assert.Equal(t, 50, got.NumberOfUsers)
	assert.Equal(t, "2024-07-01", got.SubscriptionStartDate.Format(dto.DateLayout))
	assert.True(t, decimal.NewFromInt(900).Equal(got.MonthlyRate))
	assert.Equal(t, []string{entity.ModuleHRMSCore, entity.ModulePOS}, got.ServiceModules,
		"los entitlements no se tocan al editar la suscripción")
}

func TestUpdateSubscription_CuposInvalidos(t *testing.T) {
	repo := newMemTenantRepo(seedTenant())
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, nil, &memPublisher{}, testLogger())

	err := uc.UpdateSubscription(context.Background(), "acme-corp", dto.UpdateSubscriptionRequest{
		NumberOfLocations:     0, // inválido: mínimo 1
		NumberOfUsers:         5,
		NumberOfStore:         1,
		HRMSAccessCount:       5,
		SubscriptionStartDate: "2024-07-01",
		SubscriptionEndDate:   "2025-07-01",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests baja
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_EliminaExactamenteUno(t *testing.T) {
	otro := seedTenant()
	otro.TenantID = "beta-sa"
	repo := newMemTenantRepo(seedTenant(), otro)
	cache := newMemCache()
	pub := &memPublisher{}
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, cache, pub, testLogger())

	err := uc.Delete(context.Background(), "acme-corp")
	require.NoError(t, err)

	assert.Nil(t, repo.tenants["acme-corp"])
	assert.NotNil(t, repo.tenants["beta-sa"], "la baja no debe arrastrar otros tenants")
	assert.Equal(t, []string{"acme-corp"}, cache.invalidated)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TenantDeleted, pub.events[0].Type)
	assert.Equal(t, "acme-corp", pub.events[0].TenantID)
}

func TestDelete_TenantInexistente(t *testing.T) {
	repo := newMemTenantRepo()
	uc := NewTenantUseCase(repo, &memTx{repo: repo}, nil, &memPublisher{}, testLogger())

	err := uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}
