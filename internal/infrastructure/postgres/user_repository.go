package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo lectura del directorio de usuarios sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de lectura para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// ListByRoles usuarios cuyo rol está en roles.
func (r *UserRepo) ListByRoles(ctx context.Context, roles ...string) ([]*entity.User, error) {
	if roles == nil {
		roles = []string{}
	}
	rows, err := r.pool.Query(ctx, `SELECT id, name, email, role FROM users WHERE role = ANY($1::text[]) ORDER BY id`, roles)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.User, error) {
		var u entity.User
		err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role)
		return &u, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return users, nil
}
