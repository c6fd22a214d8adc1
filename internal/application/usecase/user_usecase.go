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

// MasterUserUseCase CRUD de operadores de la consola. El único rol soportado
// hoy es MASTER_ADMIN; la columna roles queda lista para ampliaciones.
type MasterUserUseCase struct {
	repo repository.MasterUserRepository
}

// NewMasterUserUseCase construye el caso de uso de operadores.
func NewMasterUserUseCase(repo repository.MasterUserRepository) *MasterUserUseCase {
	return &MasterUserUseCase{repo: repo}
}

// List devuelve todos los operadores.
func (uc *MasterUserUseCase) List(ctx context.Context) (*dto.MasterUserListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MasterUserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toMasterUserResponse(u))
	}
	return &dto.MasterUserListResponse{Items: items, Total: len(items)}, nil
}

// Create crea un operador. Password es obligatorio y debe coincidir con la
// confirmación; la confirmación se descarta antes de persistir.
func (uc *MasterUserUseCase) Create(ctx context.Context, in dto.CreateMasterUserRequest) (*dto.MasterUserResponse, error) {
	if in.Username == "" {
		return nil, fmt.Errorf("%w: username es requerido", domain.ErrValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password es requerido para un operador nuevo", domain.ErrValidation)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrValidation)
	}
	roles, err := normalizeRoles(in.Roles)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.MasterUser{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toMasterUserResponse(user), nil
}

// Update edita un operador. Password vacío significa "dejar la contraseña
// como está"; si viene, debe coincidir con la confirmación y se rehashea.
func (uc *MasterUserUseCase) Update(ctx context.Context, id string, in dto.UpdateMasterUserRequest) (*dto.MasterUserResponse, error) {
	if in.Username == "" {
		return nil, fmt.Errorf("%w: username es requerido", domain.ErrValidation)
	}
	roles, err := normalizeRoles(in.Roles)
	if err != nil {
		return nil, err
	}

	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if in.Username != user.Username {
		other, err := uc.repo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicateUser
		}
	}

	user.Username = in.Username
	user.Roles = roles
	if in.Password != "" {
		if in.Password != in.ConfirmPassword {
			return nil, fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toMasterUserResponse(user), nil
}

// Delete elimina un operador de inmediato (sin soft-delete ni chequeo de dependencias).
func (uc *MasterUserUseCase) Delete(ctx context.Context, id string) error {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// normalizeRoles aplica el default MASTER_ADMIN y rechaza roles desconocidos.
func normalizeRoles(roles []string) ([]string, error) {
	if len(roles) == 0 {
		return []string{entity.RoleMasterAdmin}, nil
	}
	for _, r := range roles {
		if r != entity.RoleMasterAdmin {
			return nil, fmt.Errorf("%w: rol de operador desconocido %q", domain.ErrValidation, r)
		}
	}
	return roles, nil
}

func toMasterUserResponse(u *entity.MasterUser) *dto.MasterUserResponse {
	if u == nil {
		return nil
	}
	return &dto.MasterUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
