package repository

import (
	"context"

	"github.com/tu-usuario/master-console/internal/domain/entity"
)

// MasterUserRepository puerto de persistencia para operadores de la consola.
type MasterUserRepository interface {
	Create(ctx context.Context, user *entity.MasterUser) error
	GetByID(ctx context.Context, id string) (*entity.MasterUser, error)
	GetByUsername(ctx context.Context, username string) (*entity.MasterUser, error)
	List(ctx context.Context) ([]*entity.MasterUser, error)
	Update(ctx context.Context, user *entity.MasterUser) error
	Delete(ctx context.Context, id string) error
}
