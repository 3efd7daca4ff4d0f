package quota

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"jobpulse/internal/database"
)

var errNilGuard = errors.New("nil quota guard")

const (
	DailyLimit = 40
	Cooldown   = 15 * time.Second
)

// Decision is the outcome of one admission check. A rejection is a
// user-facing condition, not a system error; RetryAfter tells the
// client when trying again can succeed.
type Decision struct {
	Allowed    bool
	Reason     string // "limit" or "cooldown" when rejected
	RetryAfter time.Duration
	Remaining  int
}

// Guard admits or rejects search runs per tenant. The check and the
// usage-event insert happen in one transaction holding a per-tenant
// advisory lock, so a concurrent burst from one tenant is serialized
// and exactly the admissible number of requests passes.
type Guard struct {
	db     database.DB
	logger *log.Logger
	now    func() time.Time
}

func NewGuard(db database.DB, logger *log.Logger) *Guard {
	return &Guard{db: db, logger: logger, now: time.Now}
}

func (g *Guard) CheckAndRecord(ctx context.Context, tenantID uuid.UUID, query string) (Decision, error) {
	if g == nil || g.db == nil {
		return Decision{}, errNilGuard
	}

	tx, err := g.db.Begin(ctx)
	if err != nil {
		return Decision{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	// hashtext keys the lock by tenant; the lock releases with the
	// transaction.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, tenantID.String()); err != nil {
		return Decision{}, err
	}

	now := g.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var used int
	var last *time.Time
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE occurred_at >= $2), MAX(occurred_at)
		 FROM usage_events
		 WHERE tenant_id = $1 AND kind = 'search'`,
		tenantID, dayStart,
	).Scan(&used, &last)
	if err != nil {
		return Decision{}, err
	}

	if used >= DailyLimit {
		d := Decision{
			Allowed:    false,
			Reason:     "limit",
			RetryAfter: dayStart.Add(24 * time.Hour).Sub(now),
			Remaining:  0,
		}
		if g.logger != nil {
			g.logger.Printf("[Quota] Daily limit reached | tenant=%s used=%d", tenantID, used)
		}
		return d, nil
	}

	if last != nil {
		if since := now.Sub(last.UTC()); since < Cooldown {
			d := Decision{
				Allowed:    false,
				Reason:     "cooldown",
				RetryAfter: Cooldown - since,
				Remaining:  DailyLimit - used,
			}
			if g.logger != nil {
				g.logger.Printf("[Quota] Cooldown active | tenant=%s retry_after=%s", tenantID, d.RetryAfter)
			}
			return d, nil
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO usage_events (id, tenant_id, kind, query, occurred_at)
		 VALUES ($1,$2,'search',$3,$4)`,
		uuid.New(), tenantID, query, now,
	)
	if err != nil {
		return Decision{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Decision{}, err
	}

	return Decision{Allowed: true, Remaining: DailyLimit - used - 1}, nil
}
