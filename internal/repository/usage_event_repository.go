package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jobpulse/internal/database"
)

type UsageStats struct {
	SearchesToday int
	LastSearchAt  *time.Time
}

type UsageEventRepository interface {
	Stats(ctx context.Context, tenantID uuid.UUID) (UsageStats, error)
}

type PostgresUsageEventRepository struct {
	db database.DB
}

func NewPostgresUsageEventRepository(db database.DB) *PostgresUsageEventRepository {
	return &PostgresUsageEventRepository{db: db}
}

// Stats reports searches consumed within the current UTC day and the
// most recent search time, for the usage endpoint. The quota guard
// runs its own serialized query inside a transaction; this read is
// advisory only.
func (r *PostgresUsageEventRepository) Stats(ctx context.Context, tenantID uuid.UUID) (UsageStats, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var s UsageStats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE occurred_at >= $2), MAX(occurred_at)
		 FROM usage_events
		 WHERE tenant_id = $1 AND kind = 'search'`,
		tenantID, dayStart,
	).Scan(&s.SearchesToday, &s.LastSearchAt)
	if err != nil {
		return UsageStats{}, err
	}
	return s, nil
}
