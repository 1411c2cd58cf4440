package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rkotari/benchtrack/pkg/employee"
)

// EmployeeRepository implements employee.Directory backed by PostgreSQL.
// Employee records are managed elsewhere; this side only needs lookups
// plus a Save used by seeding and tests.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) (*EmployeeRepository, error) {
	r := &EmployeeRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *EmployeeRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS employees (
	id UUID PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT ''
);
`)
	return err
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, full_name, email, title FROM employees WHERE id = $1
`, id)
	var e employee.Employee
	if err := row.Scan(&e.ID, &e.FullName, &e.Email, &e.Title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *EmployeeRepository) Save(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO employees (id, full_name, email, title)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, email = EXCLUDED.email, title = EXCLUDED.title
`, e.ID, e.FullName, e.Email, e.Title)
	if err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}
