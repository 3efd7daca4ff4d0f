package usecase

import (
	"context"
	"log"

	"github.com/google/uuid"

	"jobpulse/internal/repository"
)

type applicationStore interface {
	MarkApplied(ctx context.Context, tenantID, jobID uuid.UUID, status, notes string) error
	ListApplications(ctx context.Context, tenantID uuid.UUID) ([]repository.Application, error)
}

type jobGetter interface {
	GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (repository.StoredJob, error)
}

var validStatuses = map[string]struct{}{
	"applied":     {},
	"interview":   {},
	"offer":       {},
	"rejected":    {},
	"withdrawn":   {},
	"in_progress": {},
}

// ApplicationUsecase tracks which stored postings the tenant acted on.
// An applied job is pinned: retention purges skip it.
type ApplicationUsecase struct {
	apps   applicationStore
	jobs   jobGetter
	logger *log.Logger
}

func NewApplicationUsecase(apps applicationStore, jobs jobGetter, logger *log.Logger) *ApplicationUsecase {
	return &ApplicationUsecase{apps: apps, jobs: jobs, logger: logger}
}

func (u *ApplicationUsecase) MarkApplied(ctx context.Context, tenantID, jobID uuid.UUID, status, notes string) error {
	if u == nil || u.apps == nil {
		return ErrInvalidInput
	}
	if tenantID == uuid.Nil || jobID == uuid.Nil {
		return ErrInvalidInput
	}
	if status != "" {
		if _, ok := validStatuses[status]; !ok {
			return ErrInvalidInput
		}
	}
	// The job must exist and belong to the tenant.
	if u.jobs != nil {
		if _, err := u.jobs.GetJob(ctx, tenantID, jobID); err != nil {
			return err
		}
	}
	if err := u.apps.MarkApplied(ctx, tenantID, jobID, status, notes); err != nil {
		return err
	}
	if u.logger != nil {
		u.logger.Printf("[Application] Marked | tenant=%s job=%s status=%s", tenantID, jobID, status)
	}
	return nil
}

func (u *ApplicationUsecase) List(ctx context.Context, tenantID uuid.UUID) ([]repository.Application, error) {
	if u == nil || u.apps == nil || tenantID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return u.apps.ListApplications(ctx, tenantID)
}
