package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
)

// memRequestRepo fake en memoria de TenantRequestRepository.
type memRequestRepo struct {
	requests map[string]*entity.TenantRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[string]*entity.TenantRequest)}
}

func (r *memRequestRepo) Create(_ context.Context, req *entity.TenantRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *memRequestRepo) GetByID(_ context.Context, id string) (*entity.TenantRequest, error) {
	return r.requests[id], nil
}

func (r *memRequestRepo) GetByTenantID(_ context.Context, tenantID string) (*entity.TenantRequest, error) {
	for _, req := range r.requests {
		if req.TenantID == tenantID {
			return req, nil
		}
	}
	return nil, nil
}

func (r *memRequestRepo) List(_ context.Context) ([]*entity.TenantRequest, error) {
	out := make([]*entity.TenantRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	return out, nil
}

func (r *memRequestRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.requests[id]; !ok {
		return domain.ErrRequestNotFound
	}
	delete(r.requests, id)
	return nil
}

func requestInput() dto.CreateTenantRequestInput {
	return dto.CreateTenantRequestInput{
		TenantID:      "acme-corp",
		CompanyName:   "Acme Corp",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "clave-inicial-123",
	}
}

func TestRequestCreate_HasheaPassword(t *testing.T) {
	repo := newMemRequestRepo()
	uc := NewRequestUseCase(repo)

	out, err := uc.Create(context.Background(), requestInput())
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "acme-corp", out.TenantID)

	stored := repo.requests[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-inicial-123", stored.PasswordHash,
		"la solicitud nunca guarda el password en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-inicial-123")))
}

func TestRequestCreate_CamposRequeridos(t *testing.T) {
	uc := NewRequestUseCase(newMemRequestRepo())
	in := requestInput()
	in.AdminEmail = ""

	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRequestCreate_TenantIDInvalido_Falla(t *testing.T) {
	uc := NewRequestUseCase(newMemRequestRepo())
	in := requestInput()
	in.TenantID = "Acme Corp!" // una solicitud así jamás podría aprobarse

	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRequestCreate_SoloUnaPendientePorTenant(t *testing.T) {
	uc := NewRequestUseCase(newMemRequestRepo())

	_, err := uc.Create(context.Background(), requestInput())
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), requestInput())
	assert.ErrorIs(t, err, domain.ErrConflict,
		"no puede haber dos solicitudes pendientes para el mismo tenant id")
}

func TestRequestReject_EliminaLaSolicitud(t *testing.T) {
	repo := newMemRequestRepo()
	uc := NewRequestUseCase(repo)
	out, err := uc.Create(context.Background(), requestInput())
	require.NoError(t, err)

	require.NoError(t, uc.Reject(context.Background(), out.ID))
	assert.Empty(t, repo.requests, "el rechazo borra la solicitud sin estado intermedio")
}

func TestRequestReject_Inexistente_Falla(t *testing.T) {
	uc := NewRequestUseCase(newMemRequestRepo())
	err := uc.Reject(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}
