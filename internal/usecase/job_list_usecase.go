package usecase

import (
	"context"
	"log"

	"github.com/google/uuid"

	"jobpulse/internal/repository"
)

type jobLister interface {
	ListJobs(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]repository.StoredJob, error)
}

// JobListUsecase serves stored postings for a tenant, sorted by match
// score. Reads never touch the external sources.
type JobListUsecase struct {
	jobs   jobLister
	logger *log.Logger
}

func NewJobListUsecase(jobs jobLister, logger *log.Logger) *JobListUsecase {
	return &JobListUsecase{jobs: jobs, logger: logger}
}

func (u *JobListUsecase) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]repository.StoredJob, error) {
	if u == nil || u.jobs == nil {
		return nil, ErrInvalidInput
	}
	if tenantID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return u.jobs.ListJobs(ctx, tenantID, f)
}
