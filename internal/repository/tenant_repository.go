package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobpulse/internal/database"
	"jobpulse/internal/domain/tenant"
)

type PostgresTenantRepository struct {
	db database.DB
}

func NewPostgresTenantRepository(db database.DB) *PostgresTenantRepository {
	return &PostgresTenantRepository{db: db}
}

func (r *PostgresTenantRepository) CreateTenant(ctx context.Context, t tenant.Tenant) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tenants (id, email, secret_hash, created_at) VALUES ($1,$2,$3,$4)`,
		t.ID, strings.ToLower(strings.TrimSpace(t.Email)), t.SecretHash, t.CreatedAt,
	)
	return err
}

func (r *PostgresTenantRepository) GetTenantByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT id, email, secret_hash, created_at FROM tenants WHERE id = $1`, id))
}

func (r *PostgresTenantRepository) GetTenantByEmail(ctx context.Context, email string) (tenant.Tenant, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT id, email, secret_hash, created_at FROM tenants WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))))
}

func (r *PostgresTenantRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenants WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&exists)
	return exists, err
}

// ListTenantIDs feeds maintenance sweeps that walk every tenant.
func (r *PostgresTenantRepository) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PostgresTenantRepository) scanOne(row database.Row) (tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Email, &t.SecretHash, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.Tenant{}, tenant.ErrNotFound
		}
		return tenant.Tenant{}, err
	}
	return t, nil
}
