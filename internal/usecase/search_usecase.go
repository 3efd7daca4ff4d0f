package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/matcher"
	"jobpulse/internal/pipeline"
	"jobpulse/internal/quota"
	"jobpulse/internal/scraper"
	"jobpulse/internal/search"
	"jobpulse/internal/ws"
)

var ErrInvalidInput = errors.New("invalid input")

// QuotaError carries the rejection decision up to the delivery layer,
// which maps it to a 429 with retry data.
type QuotaError struct {
	Decision quota.Decision
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota rejected: %s", e.Decision.Reason)
}

type SearchParams struct {
	Query    string
	Location string
	Profile  job.Profile
	Matcher  string // "keyword" or "semantic"; empty means semantic with fallback
	Limit    int
}

type ScoredJob struct {
	Job   job.Job `json:"job"`
	Score float64 `json:"score"`
}

type SearchResult struct {
	Query     string      `json:"query"`
	Plan      []string    `json:"plan"`
	Jobs      []ScoredJob `json:"jobs"`
	NewJobs   int         `json:"new_jobs"`
	Warnings  []string    `json:"warnings,omitempty"`
	Remaining int         `json:"quota_remaining"`
	Cached    bool        `json:"cached"`
}

type quotaGuard interface {
	CheckAndRecord(ctx context.Context, tenantID uuid.UUID, query string) (quota.Decision, error)
}

type jobStore interface {
	UpsertJobs(ctx context.Context, tenantID uuid.UUID, jobs []job.Job) (int, error)
}

type planRunner interface {
	Run(ctx context.Context, plan search.QueryPlan, adapters []scraper.SourceAdapter, location string, limit int) (pipeline.RunResult, error)
}

type matchNotifier interface {
	NotifyMatches(tenantID uuid.UUID, query string, jobs []ws.MatchedJob)
}

// SearchUsecase is the pipeline entry: admission, planning, fan-out,
// scoring, persistence and notification for one tenant search.
type SearchUsecase struct {
	guard        quotaGuard
	plan         func(string) search.QueryPlan
	orchestrator planRunner
	adapters     []scraper.SourceAdapter
	semantic     matcher.Matcher
	keyword      matcher.Matcher
	jobs         jobStore
	notifier     matchNotifier
	cache        SearchCache
	cacheTTL     time.Duration
	fetchLimit   int
	logger       *log.Logger
}

type SearchDeps struct {
	Guard        quotaGuard
	Plan         func(string) search.QueryPlan
	Orchestrator planRunner
	Adapters     []scraper.SourceAdapter
	Semantic     matcher.Matcher
	Keyword      matcher.Matcher
	Jobs         jobStore
	Notifier     matchNotifier
	Cache        SearchCache
	CacheTTL     time.Duration
	FetchLimit   int
	Logger       *log.Logger
}

func NewSearchUsecase(d SearchDeps) *SearchUsecase {
	ttl := d.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	plan := d.Plan
	if plan == nil {
		plan = search.Expand
	}
	fetchLimit := d.FetchLimit
	if fetchLimit <= 0 {
		fetchLimit = 10
	}
	return &SearchUsecase{
		guard:        d.Guard,
		plan:         plan,
		orchestrator: d.Orchestrator,
		adapters:     d.Adapters,
		semantic:     d.Semantic,
		keyword:      d.Keyword,
		jobs:         d.Jobs,
		notifier:     d.Notifier,
		cache:        d.Cache,
		cacheTTL:     ttl,
		fetchLimit:   fetchLimit,
		logger:       d.Logger,
	}
}

func (u *SearchUsecase) Search(ctx context.Context, tenantID uuid.UUID, p SearchParams) (SearchResult, error) {
	if u == nil {
		return SearchResult{}, ErrInvalidInput
	}
	if tenantID == uuid.Nil || normalizeSearchValue(p.Query) == "" {
		return SearchResult{}, ErrInvalidInput
	}
	if p.Limit <= 0 {
		p.Limit = u.fetchLimit
	}

	decision, err := u.guard.CheckAndRecord(ctx, tenantID, p.Query)
	if err != nil {
		return SearchResult{}, err
	}
	if !decision.Allowed {
		return SearchResult{}, &QuotaError{Decision: decision}
	}

	cacheKey := SearchResultCacheKey(tenantID.String(), p)
	if u.cache != nil {
		var cached SearchResult
		if hit, _ := u.cache.GetJSON(ctx, cacheKey, &cached); hit {
			cached.Cached = true
			cached.Remaining = decision.Remaining
			return cached, nil
		}
	}

	// A short lock collapses identical concurrent searches into one
	// fan-out; losers poll the cache the winner is about to fill. Lock
	// failure is never fatal, the loser just fetches on its own.
	if u.cache != nil {
		locked, _ := u.cache.SetIfNotExists(ctx, SearchLockKey(cacheKey), "1", 30*time.Second)
		if !locked {
			for i := 0; i < 3; i++ {
				select {
				case <-ctx.Done():
					return SearchResult{}, ctx.Err()
				case <-time.After(400 * time.Millisecond):
				}
				var cached SearchResult
				if hit, _ := u.cache.GetJSON(ctx, cacheKey, &cached); hit {
					cached.Cached = true
					cached.Remaining = decision.Remaining
					return cached, nil
				}
			}
		} else {
			defer func() { _ = u.cache.Delete(context.WithoutCancel(ctx), SearchLockKey(cacheKey)) }()
		}
	}

	plan := u.plan(p.Query)

	run, err := u.orchestrator.Run(ctx, plan, u.adapters, p.Location, p.Limit)
	if err != nil {
		return SearchResult{}, err
	}

	scored := u.score(ctx, run.Jobs, p)
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	inserted := 0
	if u.jobs != nil {
		toStore := make([]job.Job, 0, len(scored))
		for _, s := range scored {
			toStore = append(toStore, s.Job)
		}
		inserted, err = u.jobs.UpsertJobs(ctx, tenantID, toStore)
		if err != nil {
			// Results are still usable; report the persistence problem
			// as a warning instead of discarding the run.
			if u.logger != nil {
				u.logger.Printf("[Search] Persist failed | tenant=%s err=%v", tenantID, err)
			}
			run.Errors = append(run.Errors, pipeline.SourceError{Err: err})
		}
	}

	if u.notifier != nil {
		matched := make([]ws.MatchedJob, 0, len(scored))
		for _, s := range scored {
			matched = append(matched, ws.MatchedJob{
				Title:   s.Job.Title,
				Company: s.Job.Company,
				URL:     s.Job.URL,
				Score:   s.Score,
			})
		}
		u.notifier.NotifyMatches(tenantID, p.Query, matched)
	}

	res := SearchResult{
		Query:     p.Query,
		Plan:      plan.Queries,
		Jobs:      scored,
		NewJobs:   inserted,
		Warnings:  warnings(run),
		Remaining: decision.Remaining,
	}
	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, res, u.cacheTTL)
	}
	if u.logger != nil {
		u.logger.Printf("[Search] Completed | tenant=%s query=%q jobs=%d new=%d warnings=%d",
			tenantID, p.Query, len(res.Jobs), res.NewJobs, len(res.Warnings))
	}
	return res, nil
}

// score runs the selected strategy per job. Semantic degradation is
// visible in the details; in that case the keyword score substitutes
// so an embedding outage never zeroes the whole result page.
func (u *SearchUsecase) score(ctx context.Context, jobs []job.Job, p SearchParams) []ScoredJob {
	primary := u.pickMatcher(p.Matcher)

	out := make([]ScoredJob, 0, len(jobs))
	for _, j := range jobs {
		res, err := primary.Match(ctx, j, p.Profile)
		if err == nil && degradedResult(res) && primary != u.keyword && u.keyword != nil {
			if kw, kwErr := u.keyword.Match(ctx, j, p.Profile); kwErr == nil {
				kw.Details["fallback_from"] = primary.Name()
				res = kw
			}
		}
		if err != nil {
			res = matcher.MatchResult{Score: 0, Details: map[string]any{"error": err.Error()}}
		}
		j.MatchScore = &res.Score
		j.MatchDetails = res.Details
		out = append(out, ScoredJob{Job: j, Score: res.Score})
	}
	return out
}

func (u *SearchUsecase) pickMatcher(name string) matcher.Matcher {
	switch name {
	case "keyword":
		if u.keyword != nil {
			return u.keyword
		}
	case "semantic":
		if u.semantic != nil {
			return u.semantic
		}
	}
	if u.semantic != nil {
		return u.semantic
	}
	return u.keyword
}

func degradedResult(res matcher.MatchResult) bool {
	if res.Details == nil {
		return false
	}
	_, ok := res.Details["error"]
	return ok
}

func warnings(run pipeline.RunResult) []string {
	if len(run.Errors) == 0 && run.Dropped == 0 {
		return nil
	}
	out := make([]string, 0, len(run.Errors)+1)
	for _, e := range run.Errors {
		out = append(out, e.Error())
	}
	if run.Dropped > 0 {
		out = append(out, fmt.Sprintf("dropped %d incomplete records", run.Dropped))
	}
	return out
}
