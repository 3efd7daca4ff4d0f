package usecase

import (
	"context"
	"testing"
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

type fakeGuard struct {
	decision quota.Decision
	calls    int
}

func (f *fakeGuard) CheckAndRecord(ctx context.Context, tenantID uuid.UUID, query string) (quota.Decision, error) {
	f.calls++
	return f.decision, nil
}

type fakeRunner struct {
	result pipeline.RunResult
	plans  []search.QueryPlan
}

func (f *fakeRunner) Run(ctx context.Context, plan search.QueryPlan, adapters []scraper.SourceAdapter, location string, limit int) (pipeline.RunResult, error) {
	f.plans = append(f.plans, plan)
	return f.result, nil
}

type fakeJobStore struct {
	upserted []job.Job
	inserted int
}

func (f *fakeJobStore) UpsertJobs(ctx context.Context, tenantID uuid.UUID, jobs []job.Job) (int, error) {
	f.upserted = append(f.upserted, jobs...)
	return f.inserted, nil
}

type fakeNotifier struct {
	tenantID uuid.UUID
	matches  []ws.MatchedJob
}

func (f *fakeNotifier) NotifyMatches(tenantID uuid.UUID, query string, jobs []ws.MatchedJob) {
	f.tenantID = tenantID
	f.matches = jobs
}

type fakeCache struct {
	sets int
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	return false, nil
}
func (f *fakeCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.sets++
	return nil
}
func (f *fakeCache) Delete(ctx context.Context, key string) error { return nil }
func (f *fakeCache) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return true, nil
}

func fixtureRun() pipeline.RunResult {
	return pipeline.RunResult{
		Jobs: []job.Job{
			{Title: "Python Engineer", Company: "Acme", Description: "python sql",
				URL: "https://a.io/1", Source: job.SourceMock},
			{Title: "Accountant", Company: "Beta", Description: "ledgers",
				URL: "https://b.io/2", Source: job.SourceMock},
		},
	}
}

func newTestUsecase(guard *fakeGuard, runner *fakeRunner, store *fakeJobStore, notifier *fakeNotifier) *SearchUsecase {
	return NewSearchUsecase(SearchDeps{
		Guard:        guard,
		Orchestrator: runner,
		Adapters:     []scraper.SourceAdapter{scraper.NewMockAdapter()},
		Keyword:      matcher.NewKeywordMatcher(),
		Jobs:         store,
		Notifier:     notifier,
		Cache:        &fakeCache{},
	})
}

func TestSearch_ScoresSortsAndPersists(t *testing.T) {
	guard := &fakeGuard{decision: quota.Decision{Allowed: true, Remaining: 39}}
	runner := &fakeRunner{result: fixtureRun()}
	store := &fakeJobStore{inserted: 2}
	u := newTestUsecase(guard, runner, store, &fakeNotifier{})

	res, err := u.Search(context.Background(), uuid.New(), SearchParams{
		Query:   "python",
		Profile: job.Profile{Skills: []string{"python", "sql"}},
		Matcher: "keyword",
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(res.Jobs) != 2 {
		t.Fatalf("expected 2 scored jobs, got %d", len(res.Jobs))
	}
	// The python posting matches both skills, the accountant none.
	if res.Jobs[0].Job.URL != "https://a.io/1" {
		t.Fatalf("results not sorted by score: %+v", res.Jobs)
	}
	if res.Jobs[0].Score <= res.Jobs[1].Score {
		t.Fatalf("scores not descending: %v", res.Jobs)
	}
	if res.NewJobs != 2 {
		t.Fatalf("expected persisted count 2, got %d", res.NewJobs)
	}
	if len(store.upserted) != 2 {
		t.Fatalf("expected jobs persisted, got %d", len(store.upserted))
	}
	if store.upserted[0].MatchScore == nil {
		t.Fatalf("persisted jobs must carry their score")
	}
	if res.Remaining != 39 {
		t.Fatalf("expected quota remaining passthrough, got %d", res.Remaining)
	}
}

func TestSearch_QuotaRejectionIsTypedError(t *testing.T) {
	guard := &fakeGuard{decision: quota.Decision{Allowed: false, Reason: "cooldown", RetryAfter: 10 * time.Second}}
	runner := &fakeRunner{result: fixtureRun()}
	u := newTestUsecase(guard, runner, &fakeJobStore{}, &fakeNotifier{})

	_, err := u.Search(context.Background(), uuid.New(), SearchParams{
		Query:   "python",
		Profile: job.Profile{Skills: []string{"python"}},
	})
	qe, ok := err.(*QuotaError)
	if !ok {
		t.Fatalf("expected QuotaError, got %v", err)
	}
	if qe.Decision.Reason != "cooldown" {
		t.Fatalf("decision lost: %+v", qe.Decision)
	}
	if len(runner.plans) != 0 {
		t.Fatalf("rejected search must not fan out")
	}
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	u := newTestUsecase(&fakeGuard{decision: quota.Decision{Allowed: true}}, &fakeRunner{}, &fakeJobStore{}, &fakeNotifier{})
	_, err := u.Search(context.Background(), uuid.New(), SearchParams{Query: "   "})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSearch_PlanExpansionReachesOrchestrator(t *testing.T) {
	guard := &fakeGuard{decision: quota.Decision{Allowed: true}}
	runner := &fakeRunner{result: pipeline.RunResult{}}
	u := newTestUsecase(guard, runner, &fakeJobStore{}, &fakeNotifier{})

	_, err := u.Search(context.Background(), uuid.New(), SearchParams{
		Query:   "Senior Data Engineer",
		Profile: job.Profile{Skills: []string{"spark"}},
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(runner.plans) != 1 {
		t.Fatalf("expected one run, got %d", len(runner.plans))
	}
	if len(runner.plans[0].Queries) != 5 {
		t.Fatalf("expected expanded plan of 5, got %v", runner.plans[0].Queries)
	}
}

type degradedMatcher struct{}

func (degradedMatcher) Name() string { return "semantic" }
func (degradedMatcher) Match(ctx context.Context, j job.Job, p job.Profile) (matcher.MatchResult, error) {
	return matcher.MatchResult{Score: 0, Details: map[string]any{"strategy": "semantic", "error": "provider down"}}, nil
}

func TestSearch_SemanticDegradationFallsBackToKeyword(t *testing.T) {
	guard := &fakeGuard{decision: quota.Decision{Allowed: true}}
	runner := &fakeRunner{result: fixtureRun()}
	u := NewSearchUsecase(SearchDeps{
		Guard:        guard,
		Orchestrator: runner,
		Adapters:     []scraper.SourceAdapter{scraper.NewMockAdapter()},
		Semantic:     degradedMatcher{},
		Keyword:      matcher.NewKeywordMatcher(),
		Jobs:         &fakeJobStore{},
		Cache:        &fakeCache{},
	})

	res, err := u.Search(context.Background(), uuid.New(), SearchParams{
		Query:   "python",
		Profile: job.Profile{Skills: []string{"python", "sql"}},
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	top := res.Jobs[0]
	if top.Score == 0 {
		t.Fatalf("expected keyword fallback score, got 0")
	}
	if top.Job.MatchDetails["fallback_from"] != "semantic" {
		t.Fatalf("expected fallback detail, got %v", top.Job.MatchDetails)
	}
}

// contendedCache simulates a sibling process holding the fan-out lock:
// the lock is never granted and the result key fills on the second poll.
type contendedCache struct {
	fakeCache
	result SearchResult
	polls  int
}

func (c *contendedCache) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return false, nil
}

func (c *contendedCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	c.polls++
	if c.polls < 2 {
		return false, nil
	}
	if dst, ok := out.(*SearchResult); ok {
		*dst = c.result
	}
	return true, nil
}

func TestSearch_ConcurrentDuplicateWaitsForWinner(t *testing.T) {
	guard := &fakeGuard{decision: quota.Decision{Allowed: true, Remaining: 12}}
	runner := &fakeRunner{result: fixtureRun()}
	cache := &contendedCache{result: SearchResult{Query: "python", NewJobs: 3}}
	u := NewSearchUsecase(SearchDeps{
		Guard:        guard,
		Orchestrator: runner,
		Adapters:     []scraper.SourceAdapter{scraper.NewMockAdapter()},
		Keyword:      matcher.NewKeywordMatcher(),
		Jobs:         &fakeJobStore{},
		Cache:        cache,
	})

	res, err := u.Search(context.Background(), uuid.New(), SearchParams{
		Query:   "python",
		Profile: job.Profile{Skills: []string{"python"}},
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !res.Cached {
		t.Fatalf("expected the winner's cached result")
	}
	if res.Remaining != 12 {
		t.Fatalf("remaining must reflect this caller's decision, got %d", res.Remaining)
	}
	if len(runner.plans) != 0 {
		t.Fatalf("loser must not fan out while the winner runs")
	}
}

func TestSearch_NotifierReceivesScoredJobs(t *testing.T) {
	guard := &fakeGuard{decision: quota.Decision{Allowed: true}}
	runner := &fakeRunner{result: fixtureRun()}
	notifier := &fakeNotifier{}
	u := newTestUsecase(guard, runner, &fakeJobStore{}, notifier)

	tenantID := uuid.New()
	_, err := u.Search(context.Background(), tenantID, SearchParams{
		Query:   "python",
		Profile: job.Profile{Skills: []string{"python"}},
		Matcher: "keyword",
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if notifier.tenantID != tenantID {
		t.Fatalf("notification went to wrong tenant")
	}
	if len(notifier.matches) != 2 {
		t.Fatalf("expected all scored jobs offered to notifier, got %d", len(notifier.matches))
	}
}
