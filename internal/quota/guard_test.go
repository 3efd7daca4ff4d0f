package quota

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"jobpulse/internal/database"
)

// fakeDB hands every call to a single fake transaction and records
// executed statements so assertions can check what was written.
type fakeDB struct {
	tx *fakeTx
}

func (f *fakeDB) Ping(ctx context.Context) error { return nil }
func (f *fakeDB) Close() error                   { return nil }
func (f *fakeDB) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return 0, nil
}
func (f *fakeDB) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return nil, nil
}
func (f *fakeDB) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return nil
}
func (f *fakeDB) Begin(ctx context.Context) (database.Tx, error) { return f.tx, nil }

type fakeTx struct {
	used       int
	last       *time.Time
	execs      []string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	t.execs = append(t.execs, q)
	return 1, nil
}

func (t *fakeTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return usageRow{used: t.used, last: t.last}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type usageRow struct {
	used int
	last *time.Time
}

func (r usageRow) Scan(dest ...any) error {
	*(dest[0].(*int)) = r.used
	*(dest[1].(**time.Time)) = r.last
	return nil
}

func newGuardAt(tx *fakeTx, now time.Time) *Guard {
	g := NewGuard(&fakeDB{tx: tx}, nil)
	g.now = func() time.Time { return now }
	return g
}

func TestGuard_AllowsAndRecords(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tx := &fakeTx{used: 5}
	g := newGuardAt(tx, now)

	d, err := g.CheckAndRecord(context.Background(), uuid.New(), "data engineer")
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected admission, got %+v", d)
	}
	if d.Remaining != DailyLimit-6 {
		t.Fatalf("expected %d remaining, got %d", DailyLimit-6, d.Remaining)
	}
	if !tx.committed {
		t.Fatalf("admitted run must commit its usage event")
	}
	found := false
	for _, q := range tx.execs {
		if strings.Contains(q, "INSERT INTO usage_events") {
			found = true
		}
	}
	if !found {
		t.Fatalf("usage event was not recorded: %v", tx.execs)
	}
}

func TestGuard_RejectsAtDailyLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tx := &fakeTx{used: DailyLimit}
	g := newGuardAt(tx, now)

	d, err := g.CheckAndRecord(context.Background(), uuid.New(), "x")
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected rejection at limit")
	}
	if d.Reason != "limit" {
		t.Fatalf("expected limit reason, got %q", d.Reason)
	}
	if d.RetryAfter != 12*time.Hour {
		t.Fatalf("expected retry at UTC midnight, got %s", d.RetryAfter)
	}
	if tx.committed {
		t.Fatalf("rejection must not commit")
	}
	for _, q := range tx.execs {
		if strings.Contains(q, "INSERT INTO usage_events") {
			t.Fatalf("rejection must not record usage: %v", tx.execs)
		}
	}
}

func TestGuard_RejectsDuringCooldown(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-5 * time.Second)
	tx := &fakeTx{used: 3, last: &last}
	g := newGuardAt(tx, now)

	d, err := g.CheckAndRecord(context.Background(), uuid.New(), "x")
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected cooldown rejection")
	}
	if d.Reason != "cooldown" {
		t.Fatalf("expected cooldown reason, got %q", d.Reason)
	}
	if d.RetryAfter != 10*time.Second {
		t.Fatalf("expected 10s retry, got %s", d.RetryAfter)
	}
	if d.Remaining != DailyLimit-3 {
		t.Fatalf("cooldown must not consume quota: %+v", d)
	}
}

func TestGuard_AllowsAfterCooldownElapsed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-Cooldown)
	tx := &fakeTx{used: 3, last: &last}
	g := newGuardAt(tx, now)

	d, err := g.CheckAndRecord(context.Background(), uuid.New(), "x")
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("cooldown exactly elapsed must admit, got %+v", d)
	}
}
