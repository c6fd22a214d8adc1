package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/master-console/internal/domain"
	"github.com/tu-usuario/master-console/internal/domain/entity"
	"github.com/tu-usuario/master-console/internal/domain/repository"
)

var _ repository.MasterUserRepository = (*MasterUserRepo)(nil)

// MasterUserRepo implementación de MasterUserRepository sobre PostgreSQL.
type MasterUserRepo struct {
	q Querier
}

// NewMasterUserRepository construye el adaptador de operadores de consola.
func NewMasterUserRepository(q Querier) *MasterUserRepo {
	return &MasterUserRepo{q: q}
}

// Create persiste un operador nuevo.
func (r *MasterUserRepo) Create(ctx context.Context, u *entity.MasterUser) error {
	query := `
		INSERT INTO master_users (id, username, password_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, u.ID, u.Username, u.PasswordHash, u.Roles, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("insert master user: %w", err)
	}
	return nil
}

// GetByID obtiene un operador por id; nil si no existe.
func (r *MasterUserRepo) GetByID(ctx context.Context, id string) (*entity.MasterUser, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByUsername obtiene un operador por username; nil si no existe.
func (r *MasterUserRepo) GetByUsername(ctx context.Context, username string) (*entity.MasterUser, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

func (r *MasterUserRepo) getOne(ctx context.Context, where string, arg any) (*entity.MasterUser, error) {
	query := `
		SELECT id, username, password_hash, roles, created_at, updated_at
		FROM master_users ` + where
	var u entity.MasterUser
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get master user: %w", err)
	}
	return &u, nil
}

// List devuelve todos los operadores.
func (r *MasterUserRepo) List(ctx context.Context) ([]*entity.MasterUser, error) {
	query := `
		SELECT id, username, password_hash, roles, created_at, updated_at
		FROM master_users ORDER BY username`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list master users: %w", err)
	}
	defer rows.Close()

	var list []*entity.MasterUser
	for rows.Next() {
		var u entity.MasterUser
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan master user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Update actualiza username, hash y roles de un operador.
func (r *MasterUserRepo) Update(ctx context.Context, u *entity.MasterUser) error {
	query := `
		UPDATE master_users SET username = $2, password_hash = $3, roles = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, u.ID, u.Username, u.PasswordHash, u.Roles, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("update master user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina un operador de inmediato.
func (r *MasterUserRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM master_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete master user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
