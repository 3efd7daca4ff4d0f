package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/scraper"
	"jobpulse/internal/search"
)

const defaultCallTimeout = 12 * time.Second

// SourceError attributes one failed fetch to its (source, query) pair.
// A run reports these alongside its results instead of aborting.
type SourceError struct {
	Source job.Source
	Query  string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Source, e.Query, e.Err)
}

// RunResult is one orchestrated fan-out: the merged unique postings
// plus every per-source failure observed on the way.
type RunResult struct {
	Jobs    []job.Job
	Errors  []SourceError
	Dropped int
}

// Orchestrator fans a query plan out across every registered adapter
// through a bounded worker pool and folds the answers back into one
// normalized, deduplicated set.
type Orchestrator struct {
	workers     int
	rateLimit   int
	callTimeout time.Duration
	logger      *log.Logger
}

type OrchestratorOption func(*Orchestrator)

func WithWorkers(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithRateLimit(rps int) OrchestratorOption {
	return func(o *Orchestrator) { o.rateLimit = rps }
}

func WithCallTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

func NewOrchestrator(logger *log.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		workers:     4,
		callTimeout: defaultCallTimeout,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run dispatches every (adapter, query) pair and blocks until all
// tasks finished or ctx was cancelled. Individual fetch failures never
// abort siblings; cancellation of ctx does.
func (o *Orchestrator) Run(ctx context.Context, plan search.QueryPlan, adapters []scraper.SourceAdapter, location string, limit int) (RunResult, error) {
	if o == nil {
		return RunResult{}, fmt.Errorf("nil orchestrator")
	}
	if len(adapters) == 0 {
		return RunResult{}, fmt.Errorf("no adapters registered")
	}
	queries := plan.Queries
	if len(queries) == 0 {
		queries = []string{plan.Base}
	}
	if limit <= 0 {
		limit = 10
	}

	pool := scraper.NewWorkerPool(o.workers, len(adapters)*len(queries))
	if o.rateLimit > 0 {
		pool.SetRateLimit(o.rateLimit)
	}
	results := pool.Run(ctx)

	for _, a := range adapters {
		for _, q := range queries {
			adapter, query := a, q
			pool.Submit(adapter.Source(), query, func(taskCtx context.Context) ([]job.Job, error) {
				callCtx, cancel := context.WithTimeout(taskCtx, o.callTimeout)
				defer cancel()
				return adapter.Fetch(callCtx, query, location, limit)
			})
		}
	}
	pool.Close()

	dedup := NewDeduplicator()
	var errs []SourceError
	dropped := 0
	for r := range results {
		if r.Err != nil {
			errs = append(errs, SourceError{Source: r.Source, Query: r.Query, Err: r.Err})
			if o.logger != nil {
				o.logger.Printf("[Pipeline] Source fetch failed | source=%s query=%q err=%v", r.Source, r.Query, r.Err)
			}
			continue
		}
		clean := Normalize(r.Jobs)
		dropped += len(r.Jobs) - len(clean)
		dedup.Merge(clean)
	}

	if err := ctx.Err(); err != nil {
		return RunResult{Jobs: dedup.Jobs(), Errors: errs, Dropped: dropped}, err
	}
	if o.logger != nil {
		o.logger.Printf("[Pipeline] Run complete | unique=%d errors=%d dropped=%d", dedup.Len(), len(errs), dropped)
	}
	return RunResult{Jobs: dedup.Jobs(), Errors: errs, Dropped: dropped}, nil
}
