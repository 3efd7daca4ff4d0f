package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

type jobPurger interface {
	PurgeOlderThan(ctx context.Context, tenantID uuid.UUID, age time.Duration) (int64, error)
}

type tenantIDLister interface {
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// MaintenanceUsecase removes stale unapplied postings past the
// retention window. Invoked by the cron scheduler and exposed for
// manual runs.
type MaintenanceUsecase struct {
	jobs      jobPurger
	tenants   tenantIDLister
	retention time.Duration
	logger    *log.Logger
}

func NewMaintenanceUsecase(jobs jobPurger, tenants tenantIDLister, retention time.Duration, logger *log.Logger) *MaintenanceUsecase {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &MaintenanceUsecase{jobs: jobs, tenants: tenants, retention: retention, logger: logger}
}

func (u *MaintenanceUsecase) PurgeTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	if u == nil || u.jobs == nil || tenantID == uuid.Nil {
		return 0, ErrInvalidInput
	}
	n, err := u.jobs.PurgeOlderThan(ctx, tenantID, u.retention)
	if err != nil {
		return 0, err
	}
	if u.logger != nil && n > 0 {
		u.logger.Printf("[Maintenance] Purged stale jobs | tenant=%s removed=%d", tenantID, n)
	}
	return n, nil
}

// PurgeAll walks every tenant; one failing tenant never blocks the
// rest of the sweep.
func (u *MaintenanceUsecase) PurgeAll(ctx context.Context) error {
	if u == nil || u.tenants == nil {
		return ErrInvalidInput
	}
	ids, err := u.tenants.ListTenantIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := u.PurgeTenant(ctx, id); err != nil && u.logger != nil {
			u.logger.Printf("[Maintenance] Purge failed | tenant=%s err=%v", id, err)
		}
	}
	return nil
}
