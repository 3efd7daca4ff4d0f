package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jobpulse/internal/quota"
	"jobpulse/internal/repository"
)

type usageReader interface {
	Stats(ctx context.Context, tenantID uuid.UUID) (repository.UsageStats, error)
}

type UsageReport struct {
	SearchesToday int    `json:"searches_today"`
	DailyLimit    int    `json:"daily_limit"`
	Remaining     int    `json:"remaining"`
	LastSearchAt  string `json:"last_search_at,omitempty"`
}

// UsageUsecase exposes the tenant's quota consumption to the API.
type UsageUsecase struct {
	usage usageReader
}

func NewUsageUsecase(usage usageReader) *UsageUsecase {
	return &UsageUsecase{usage: usage}
}

func (u *UsageUsecase) Report(ctx context.Context, tenantID uuid.UUID) (UsageReport, error) {
	if u == nil || u.usage == nil || tenantID == uuid.Nil {
		return UsageReport{}, ErrInvalidInput
	}
	s, err := u.usage.Stats(ctx, tenantID)
	if err != nil {
		return UsageReport{}, err
	}
	remaining := quota.DailyLimit - s.SearchesToday
	if remaining < 0 {
		remaining = 0
	}
	r := UsageReport{
		SearchesToday: s.SearchesToday,
		DailyLimit:    quota.DailyLimit,
		Remaining:     remaining,
	}
	if s.LastSearchAt != nil {
		r.LastSearchAt = s.LastSearchAt.UTC().Format(time.RFC3339)
	}
	return r, nil
}
