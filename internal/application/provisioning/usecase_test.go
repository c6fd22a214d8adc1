package provisioning

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/application/event"
	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
	"github.com/tu-usuario/master-console/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeTenantRepo struct {
	tenants     map[string]*entity.Tenant
	createCalls int
	getCalls    int
	createErr   error
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[string]*entity.Tenant)}
}

func (r *fakeTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.tenants[t.TenantID]; ok {
		return domain.ErrDuplicateTenant
	}
	r.tenants[t.TenantID] = t
	return nil
}

func (r *fakeTenantRepo) GetByTenantID(_ context.Context, tenantID string) (*entity.Tenant, error) {
	r.getCalls++
	return r.tenants[tenantID], nil
}

func (r *fakeTenantRepo) List(_ context.Context) ([]*entity.Tenant, error) {
	out := make([]*entity.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTenantRepo) ReplaceEntitlements(_ context.Context, tenantID string, ent entity.Entitlement) error {
	t, ok := r.tenants[tenantID]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.ServiceModules = ent.ServiceModules
	t.AdminRoles = ent.AdminRoles
	return nil
}

func (r *fakeTenantRepo) UpdateSubscription(_ context.Context, t *entity.Tenant) error {
	if _, ok := r.tenants[t.TenantID]; !ok {
		return domain.ErrTenantNotFound
	}
	r.tenants[t.TenantID] = t
	return nil
}

func (r *fakeTenantRepo) Delete(_ context.Context, tenantID string) error {
	if _, ok := r.tenants[tenantID]; !ok {
		return domain.ErrTenantNotFound
	}
	delete(r.tenants, tenantID)
	return nil
}

type fakeRequestRepo struct {
	requests  map[string]*entity.TenantRequest // por id
	deleteErr error
	deleted   []string
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*entity.TenantRequest)}
}

func (r *fakeRequestRepo) Create(_ context.Context, req *entity.TenantRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*entity.TenantRequest, error) {
	return r.requests[id], nil
}

func (r *fakeRequestRepo) GetByTenantID(_ context.Context, tenantID string) (*entity.TenantRequest, error) {
	for _, req := range r.requests {
		if req.TenantID == tenantID {
			return req, nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) List(_ context.Context) ([]*entity.TenantRequest, error) {
	out := make([]*entity.TenantRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeRequestRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.requests[id]; !ok {
		return domain.ErrRequestNotFound
	}
	delete(r.requests, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeCleanupRepo struct {
	markers []*entity.PendingCleanup
}

func (r *fakeCleanupRepo) Create(_ context.Context, pc *entity.PendingCleanup) error {
	r.markers = append(r.markers, pc)
	return nil
}

func (r *fakeCleanupRepo) List(_ context.Context) ([]*entity.PendingCleanup, error) {
	return r.markers, nil
}

func (r *fakeCleanupRepo) Delete(_ context.Context, requestID string) error {
	out := r.markers[:0]
	for _, m := range r.markers {
		if m.RequestID != requestID {
			out = append(out, m)
		}
	}
	r.markers = out
	return nil
}

type fakePublisher struct {
	events []event.Event
}

func (p *fakePublisher) Publish(_ context.Context, e event.Event) error {
	p.events = append(p.events, e)
	return nil
}

// fakeTx ejecuta el callback directamente con el repo dado, sin transacción real.
type fakeTx struct {
	repo repository.TenantRepository
}

func (tx *fakeTx) Run(_ context.Context, fn func(repository.TenantRepository) error) error {
	return fn(tx.repo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc          *ProvisionUseCase
	tenantRepo  *fakeTenantRepo
	requestRepo *fakeRequestRepo
	cleanupRepo *fakeCleanupRepo
	publisher   *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tenantRepo := newFakeTenantRepo()
	requestRepo := newFakeRequestRepo()
	cleanupRepo := &fakeCleanupRepo{}
	publisher := &fakePublisher{}
	log := logger.New(logger.Config{Env: "test", Level: "error"})

	uc := NewProvisionUseCase(
		&fakeTx{repo: tenantRepo}, tenantRepo, requestRepo, cleanupRepo,
		publisher, log, "localhost:5432",
	)
	// Reloj fijo para que las fechas por defecto sean deterministas.
	uc.now = func() time.Time {
		return time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)
	}
	return &fixture{uc: uc, tenantRepo: tenantRepo, requestRepo: requestRepo, cleanupRepo: cleanupRepo, publisher: publisher}
}

func validInput() dto.ProvisionTenantRequest {
	return dto.ProvisionTenantRequest{
		TenantID:       "acme-corp",
		CompanyName:    "Acme Corp",
		AdminEmail:     "admin@acme.example",
		AdminPassword:  "super-secreta-123",
		MonthlyRate:    decimal.NewFromInt(250),
		ServiceModules: []string{entity.ModuleHRMSCore, entity.ModulePOS},
		AdminRoles:     []string{entity.RoleSuperAdmin, entity.RoleHR},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Provision
// ──────────────────────────────────────────────────────────────────────────────

func TestProvision_CaminoFeliz(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Provision(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.False(t, resp.CleanupPending)
	assert.Equal(t, "acme-corp", resp.Tenant.TenantID)
	assert.Equal(t, entity.TenantStatusActive, resp.Tenant.Status)
	assert.Equal(t, "admin@acme.example", resp.Tenant.Username)
	assert.Equal(t, "jdbc:postgresql://localhost:5432/tenant_acme_corp", resp.Tenant.JDBCURL,
		"el descriptor JDBC debe apuntar a la base del tenant con guiones convertidos")

	created := f.tenantRepo.tenants["acme-corp"]
	require.NotNil(t, created, "el tenant debe quedar persistido")
	assert.NotEqual(t, "super-secreta-123", created.AdminPasswordHash,
		"el password nunca se persiste en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.AdminPasswordHash), []byte("super-secreta-123")))

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, event.TenantProvisioned, f.publisher.events[0].Type)
}

func TestProvision_DefaultsDeSuscripcion(t *testing.T) {
	f := newFixture(t)

	// Sin cupos ni fechas: aplican los defaults.
	resp, err := f.uc.Provision(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Tenant.NumberOfLocations)
	assert.Equal(t, 5, resp.Tenant.NumberOfUsers)
	assert.Equal(t, 1, resp.Tenant.NumberOfStore)
	assert.Equal(t, 5, resp.Tenant.HRMSAccessCount)
	assert.Equal(t, "2024-03-01", resp.Tenant.SubscriptionStartDate,
		"sin fecha de inicio, arranca hoy")
	assert.Equal(t, "2025-03-01", resp.Tenant.SubscriptionEndDate,
		"sin fecha de fin, termina exactamente un año calendario después")
}

func TestProvision_FechasExplicitasSeRespetan(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.SubscriptionStartDate = "2024-06-15"
	in.SubscriptionEndDate = "2024-12-31"
	in.NumberOfUsers = 40

	resp, err := f.uc.Provision(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-15", resp.Tenant.SubscriptionStartDate)
	assert.Equal(t, "2024-12-31", resp.Tenant.SubscriptionEndDate)
	assert.Equal(t, 40, resp.Tenant.NumberOfUsers)
}

func TestProvision_TenantDuplicado_RetornaConflicto(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Provision(context.Background(), validInput())
	require.NoError(t, err)

	creates := f.tenantRepo.createCalls
	_, err = f.uc.Provision(context.Background(), validInput())
	assert.ErrorIs(t, err, domain.ErrDuplicateTenant)
	assert.Equal(t, creates, f.tenantRepo.createCalls,
		"el duplicado se detecta antes de intentar el INSERT")
}

func TestProvision_SinAdminRoles_FallaAntesDeTocarRepos(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.AdminRoles = nil

	_, err := f.uc.Provision(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.tenantRepo.getCalls, "la validación falla antes de cualquier consulta")
	assert.Zero(t, f.tenantRepo.createCalls)
}

func TestProvision_RolDesconocido_FallaValidacion(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.AdminRoles = []string{"CAPATAZ"}

	_, err := f.uc.Provision(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProvision_TenantIDInvalido_FallaValidacion(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.TenantID = "Acme Corp!" // mayúsculas y espacios no permitidos

	_, err := f.uc.Provision(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProvision_CupoNegativo_FallaValidacion(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.NumberOfUsers = -3 // 0 significa "usar default"; lo negativo es inválido

	_, err := f.uc.Provision(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProvision_TarifaNegativa_FallaValidacion(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.MonthlyRate = decimal.NewFromInt(-1)

	_, err := f.uc.Provision(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProvision_BorraSolicitudCoincidente(t *testing.T) {
	f := newFixture(t)
	req := &entity.TenantRequest{ID: "req-1", TenantID: "acme-corp", CompanyName: "Acme Corp"}
	require.NoError(t, f.requestRepo.Create(context.Background(), req))

	resp, err := f.uc.Provision(context.Background(), validInput())
	require.NoError(t, err)

	assert.False(t, resp.CleanupPending)
	assert.Equal(t, []string{"req-1"}, f.requestRepo.deleted,
		"la solicitud aprobada debe borrarse después de crear el tenant")
	assert.Empty(t, f.cleanupRepo.markers)
}

func TestProvision_LimpiezaFallida_ReportaExitoConMarcador(t *testing.T) {
	f := newFixture(t)
	req := &entity.TenantRequest{ID: "req-2", TenantID: "acme-corp"}
	require.NoError(t, f.requestRepo.Create(context.Background(), req))
	f.requestRepo.deleteErr = errors.New("deadlock detectado")

	resp, err := f.uc.Provision(context.Background(), validInput())
	require.NoError(t, err, "el fallo del borrado no revierte el aprovisionamiento")
	require.NotNil(t, resp)

	assert.True(t, resp.CleanupPending, "debe reportarse la limpieza pendiente al operador")
	assert.NotNil(t, f.tenantRepo.tenants["acme-corp"], "el tenant queda creado igualmente")
	require.Len(t, f.cleanupRepo.markers, 1)
	assert.Equal(t, "req-2", f.cleanupRepo.markers[0].RequestID)
	assert.Equal(t, "acme-corp", f.cleanupRepo.markers[0].TenantID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RetryCleanups
// ──────────────────────────────────────────────────────────────────────────────

func TestRetryCleanups_ResuelveMarcadores(t *testing.T) {
	f := newFixture(t)
	req := &entity.TenantRequest{ID: "req-3", TenantID: "beta-sa"}
	require.NoError(t, f.requestRepo.Create(context.Background(), req))
	f.cleanupRepo.markers = []*entity.PendingCleanup{
		{RequestID: "req-3", TenantID: "beta-sa"},
	}

	out, err := f.uc.RetryCleanups(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, out.Retried)
	assert.Equal(t, 0, out.Remaining)
	assert.Empty(t, f.cleanupRepo.markers, "el marcador resuelto se retira")
	assert.Nil(t, f.requestRepo.requests["req-3"])
}

func TestRetryCleanups_SolicitudYaBorrada_CuentaComoResuelta(t *testing.T) {
	f := newFixture(t)
	// Marcador huérfano: la solicitud ya no existe.
	f.cleanupRepo.markers = []*entity.PendingCleanup{
		{RequestID: "req-fantasma", TenantID: "gamma-ltda"},
	}

	out, err := f.uc.RetryCleanups(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, out.Retried, "una solicitud ya borrada cuenta como resuelta")
	assert.Empty(t, f.cleanupRepo.markers)
}

func TestRetryCleanups_SentinelEnvuelto_CuentaComoResuelta(t *testing.T) {
	f := newFixture(t)
	f.cleanupRepo.markers = []*entity.PendingCleanup{
		{RequestID: "req-5", TenantID: "epsilon-sa"},
	}
	// Un repo puede envolver el sentinel con contexto; sigue siendo "ya borrada".
	f.requestRepo.deleteErr = fmt.Errorf("delete tenant request: %w", domain.ErrRequestNotFound)

	out, err := f.uc.RetryCleanups(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, out.Retried)
	assert.Empty(t, f.cleanupRepo.markers)
}

func TestRetryCleanups_FalloPersistente_QuedaPendiente(t *testing.T) {
	f := newFixture(t)
	req := &entity.TenantRequest{ID: "req-4", TenantID: "delta-srl"}
	require.NoError(t, f.requestRepo.Create(context.Background(), req))
	f.cleanupRepo.markers = []*entity.PendingCleanup{
		{RequestID: "req-4", TenantID: "delta-srl"},
	}
	f.requestRepo.deleteErr = errors.New("timeout")

	out, err := f.uc.RetryCleanups(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, out.Retried)
	assert.Equal(t, 1, out.Remaining)
	require.Len(t, f.cleanupRepo.markers, 1, "el marcador sigue hasta que el borrado funcione")
}
