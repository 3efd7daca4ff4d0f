package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jobpulse/internal/database"
)

type Application struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	JobID     uuid.UUID
	Status    string
	Notes     string
	AppliedAt time.Time
}

type ApplicationRepository interface {
	MarkApplied(ctx context.Context, tenantID, jobID uuid.UUID, status, notes string) error
	ListApplications(ctx context.Context, tenantID uuid.UUID) ([]Application, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// MarkApplied records or updates the tenant's application to one job.
// Repeating the call refreshes status and notes rather than failing.
func (r *PostgresApplicationRepository) MarkApplied(ctx context.Context, tenantID, jobID uuid.UUID, status, notes string) error {
	if tenantID == uuid.Nil || jobID == uuid.Nil {
		return nil
	}
	if status == "" {
		status = "applied"
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, tenant_id, job_id, status, notes, applied_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (tenant_id, job_id) DO UPDATE SET
			status = EXCLUDED.status,
			notes = EXCLUDED.notes`,
		uuid.New(), tenantID, jobID, status, notes, time.Now().UTC(),
	)
	return err
}

func (r *PostgresApplicationRepository) ListApplications(ctx context.Context, tenantID uuid.UUID) ([]Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, job_id, status, notes, applied_at
		 FROM applications
		 WHERE tenant_id = $1
		 ORDER BY applied_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.TenantID, &a.JobID, &a.Status, &a.Notes, &a.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
