package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"jobpulse/internal/database"
	"jobpulse/internal/domain/job"
)

// StoredJob is a persisted posting with its row identity and the
// application state joined in.
type StoredJob struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Job       job.Job
	Applied   bool
	CreatedAt time.Time
}

type ListFilter struct {
	MinScore    *float64
	Source      job.Source
	OnlyApplied bool
	Limit       int
	Offset      int
}

type JobRepository interface {
	UpsertJobs(ctx context.Context, tenantID uuid.UUID, jobs []job.Job) (int, error)
	ListJobs(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]StoredJob, error)
	GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (StoredJob, error)
	PurgeOlderThan(ctx context.Context, tenantID uuid.UUID, age time.Duration) (int64, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// UpsertJobs inserts new postings and refreshes the score of ones seen
// before. The returned count covers newly inserted rows only, so the
// caller can report "N new jobs" honestly across repeated searches.
func (r *PostgresJobRepository) UpsertJobs(ctx context.Context, tenantID uuid.UUID, jobs []job.Job) (int, error) {
	if tenantID == uuid.Nil || len(jobs) == 0 {
		return 0, nil
	}

	inserted := 0
	for _, j := range jobs {
		if !j.Complete() {
			continue
		}
		var details []byte
		if j.MatchDetails != nil {
			if b, err := json.Marshal(j.MatchDetails); err == nil {
				details = b
			}
		}
		// xmax = 0 only on a freshly inserted row, so updates of
		// previously seen postings do not inflate the new-jobs count.
		var isNew bool
		err := r.db.QueryRow(ctx,
			`INSERT INTO jobs (id, tenant_id, title, company, location, description, url, source, posted_at, match_score, match_details)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			 ON CONFLICT (tenant_id, url) DO UPDATE SET
				match_score = EXCLUDED.match_score,
				match_details = EXCLUDED.match_details
			 RETURNING (xmax = 0)`,
			uuid.New(), tenantID, j.Title, j.Company, j.Location, j.Description,
			j.URL, string(j.Source), j.PostedAt, j.MatchScore, details,
		).Scan(&isNew)
		if err != nil {
			return inserted, err
		}
		if isNew {
			inserted++
		}
	}
	return inserted, nil
}

func (r *PostgresJobRepository) ListJobs(ctx context.Context, tenantID uuid.UUID, f ListFilter) ([]StoredJob, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT j.id, j.tenant_id, j.title, j.company, j.location, j.description, j.url, j.source,
			j.posted_at, j.match_score, j.match_details, j.created_at,
			EXISTS (SELECT 1 FROM applications a WHERE a.job_id = j.id) AS applied
		 FROM jobs j
		 WHERE j.tenant_id = $1`
	args := []any{tenantID}
	i := 2
	if f.MinScore != nil {
		q += ` AND j.match_score >= $` + itoa(i)
		args = append(args, *f.MinScore)
		i++
	}
	if f.Source != "" {
		q += ` AND j.source = $` + itoa(i)
		args = append(args, string(f.Source))
		i++
	}
	if f.OnlyApplied {
		q += ` AND EXISTS (SELECT 1 FROM applications a WHERE a.job_id = j.id)`
	}
	q += ` ORDER BY j.match_score DESC NULLS LAST, j.created_at DESC
		 LIMIT $` + itoa(i) + ` OFFSET $` + itoa(i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StoredJob, 0, limit)
	for rows.Next() {
		s, err := scanStoredJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresJobRepository) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (StoredJob, error) {
	row := r.db.QueryRow(ctx,
		`SELECT j.id, j.tenant_id, j.title, j.company, j.location, j.description, j.url, j.source,
			j.posted_at, j.match_score, j.match_details, j.created_at,
			EXISTS (SELECT 1 FROM applications a WHERE a.job_id = j.id) AS applied
		 FROM jobs j
		 WHERE j.tenant_id = $1 AND j.id = $2`,
		tenantID, jobID,
	)
	return scanStoredJob(row)
}

// PurgeOlderThan removes stale postings. Jobs the tenant applied to
// are kept forever regardless of age.
func (r *PostgresJobRepository) PurgeOlderThan(ctx context.Context, tenantID uuid.UUID, age time.Duration) (int64, error) {
	if tenantID == uuid.Nil || age <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-age)
	return r.db.Exec(ctx,
		`DELETE FROM jobs j
		 WHERE j.tenant_id = $1 AND j.created_at < $2
		 AND NOT EXISTS (SELECT 1 FROM applications a WHERE a.job_id = j.id)`,
		tenantID, cutoff,
	)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStoredJob(row scanner) (StoredJob, error) {
	var s StoredJob
	var src string
	var details []byte
	err := row.Scan(
		&s.ID, &s.TenantID, &s.Job.Title, &s.Job.Company, &s.Job.Location, &s.Job.Description,
		&s.Job.URL, &src, &s.Job.PostedAt, &s.Job.MatchScore, &details, &s.CreatedAt, &s.Applied,
	)
	if err != nil {
		return StoredJob{}, err
	}
	s.Job.Source = job.Source(src)
	if len(details) > 0 {
		_ = json.Unmarshal(details, &s.Job.MatchDetails)
	}
	return s, nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
