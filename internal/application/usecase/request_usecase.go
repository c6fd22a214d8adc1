package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/master-console/internal/application/dto"
	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
)

// RequestUseCase reglas de negocio de la cola de solicitudes self-service:
// alta (intake público), listado y rechazo. Una solicitud nunca se edita.
type RequestUseCase struct {
	repo repository.TenantRequestRepository
}

// NewRequestUseCase construye el caso de uso de solicitudes.
func NewRequestUseCase(repo repository.TenantRequestRepository) *RequestUseCase {
	return &RequestUseCase{repo: repo}
}

// Create registra una solicitud self-service. El password del admin se
// hashea con bcrypt antes de persistir; nunca se guarda en claro.
func (uc *RequestUseCase) Create(ctx context.Context, in dto.CreateTenantRequestInput) (*dto.TenantRequestResponse, error) {
	if in.TenantID == "" || in.CompanyName == "" || in.AdminEmail == "" || in.AdminPassword == "" {
		return nil, fmt.Errorf("%w: tenant_id, company_name, admin_email y admin_password son requeridos", domain.ErrValidation)
	}
	// Mismo formato que exige el aprovisionamiento: una solicitud con tenant id
	// inválido nunca podría aprobarse.
	if !entity.ValidTenantID(in.TenantID) {
		return nil, fmt.Errorf("%w: tenant_id debe ser minúsculas/dígitos/guiones (3-31 chars)", domain.ErrValidation)
	}

	// Solo una solicitud pendiente por tenant id deseado.
	existing, err := uc.repo.GetByTenantID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	req := &entity.TenantRequest{
		ID:           uuid.New().String(),
		TenantID:     in.TenantID,
		CompanyName:  in.CompanyName,
		AdminEmail:   in.AdminEmail,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// List devuelve todas las solicitudes pendientes.
func (uc *RequestUseCase) List(ctx context.Context) (*dto.TenantRequestListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRequestResponse(r))
	}
	return &dto.TenantRequestListResponse{Items: items, Total: len(items)}, nil
}

// Reject elimina una solicitud por id (rechazo definitivo, sin estado intermedio).
func (uc *RequestUseCase) Reject(ctx context.Context, id string) error {
	req, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return domain.ErrRequestNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func toRequestResponse(r *entity.TenantRequest) *dto.TenantRequestResponse {
	if r == nil {
		return nil
	}
	return &dto.TenantRequestResponse{
		ID:          r.ID,
		TenantID:    r.TenantID,
		CompanyName: r.CompanyName,
		AdminEmail:  r.AdminEmail,
		CreatedAt:   r.CreatedAt,
	}
}
