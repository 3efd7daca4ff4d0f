package pipeline

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/scraper"
	"jobpulse/internal/search"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

func TestNormalize_DropsIncompleteAndUnknownSource(t *testing.T) {
	in := []job.Job{
		{Title: "  Data   Engineer ", Company: "Acme", URL: "https://a.io/1", Source: job.SourceMock},
		{Title: "No URL", Company: "Acme", Source: job.SourceMock},
		{Title: "Bad Source", Company: "Acme", URL: "https://a.io/2", Source: job.Source("linkedin")},
		{Title: "", Company: "Acme", URL: "https://a.io/3", Source: job.SourceMock},
	}
	out := Normalize(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(out))
	}
	if out[0].Title != "Data Engineer" {
		t.Fatalf("whitespace not collapsed: %q", out[0].Title)
	}
}

func TestDedupe_FirstWriterWinsFillsEmptyFields(t *testing.T) {
	in := []job.Job{
		{Title: "Data Engineer", Company: "Acme", Location: "", URL: "https://a.io/1", Source: job.SourceMock},
		{Title: "Data Engineer (dup)", Company: "Acme Inc", Location: "Remote", URL: "https://a.io/1", Source: job.SourceArbeitnow},
		{Title: "Backend Engineer", Company: "Beta", URL: "https://b.io/2", Source: job.SourceMock},
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 unique jobs, got %d", len(out))
	}
	first := out[0]
	if first.Title != "Data Engineer" || first.Company != "Acme" {
		t.Fatalf("first writer lost a populated field: %+v", first)
	}
	if first.Location != "Remote" {
		t.Fatalf("empty field not filled from duplicate: %+v", first)
	}
	if out[1].URL != "https://b.io/2" {
		t.Fatalf("arrival order not preserved: %+v", out[1])
	}
}

func TestDedupe_NeverCreatesRecords(t *testing.T) {
	in := []job.Job{
		{Title: "A", Company: "A", URL: "https://a.io/1", Source: job.SourceMock},
		{Title: "A2", Company: "A2", URL: "https://a.io/1", Source: job.SourceMock},
	}
	out := Dedupe(in)
	if len(out) > len(in) {
		t.Fatalf("dedupe grew the set: %d > %d", len(out), len(in))
	}
	seen := map[string]bool{}
	for _, j := range out {
		if seen[j.URL] {
			t.Fatalf("duplicate url survived: %q", j.URL)
		}
		seen[j.URL] = true
	}
}

type stubAdapter struct {
	source job.Source
	jobs   []job.Job
	err    error
	delay  time.Duration
}

func (s *stubAdapter) Source() job.Source { return s.source }

func (s *stubAdapter) Fetch(ctx context.Context, query, location string, limit int) ([]job.Job, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.jobs, nil
}

func TestOrchestrator_MergesAcrossAdapters(t *testing.T) {
	shared := job.Job{Title: "Data Engineer", Company: "Acme", Location: "", URL: "https://a.io/1", Source: job.SourceMock}
	sharedRemote := shared
	sharedRemote.Location = "Remote"
	sharedRemote.Source = job.SourceArbeitnow

	a := &stubAdapter{source: job.SourceMock, jobs: []job.Job{
		shared,
		{Title: "Backend Engineer", Company: "Beta", URL: "https://b.io/2", Source: job.SourceMock},
	}}
	b := &stubAdapter{source: job.SourceArbeitnow, jobs: []job.Job{sharedRemote}}

	o := NewOrchestrator(testLogger(), WithWorkers(2))
	res, err := o.Run(context.Background(), search.QueryPlan{Base: "data engineer", Queries: []string{"data engineer"}},
		[]scraper.SourceAdapter{a, b}, "", 10)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(res.Jobs) != 2 {
		t.Fatalf("expected 2 unique jobs, got %d", len(res.Jobs))
	}
	for _, j := range res.Jobs {
		if j.URL == "https://a.io/1" && j.Location != "Remote" {
			t.Fatalf("location merge failed: %+v", j)
		}
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestOrchestrator_PartialFailureKeepsSiblingResults(t *testing.T) {
	healthy := &stubAdapter{source: job.SourceMock, jobs: []job.Job{
		{Title: "Data Engineer", Company: "Acme", URL: "https://a.io/1", Source: job.SourceMock},
		{Title: "Senior Data Engineer", Company: "Beta", URL: "https://b.io/2", Source: job.SourceMock},
		{Title: "Lead Data Engineer", Company: "Gamma", URL: "https://c.io/3", Source: job.SourceMock},
	}}
	// Slower than the per-call timeout, so the fetch is cancelled and
	// reported while the healthy sibling still delivers.
	stuck := &stubAdapter{source: job.SourceNaukri, delay: time.Second}

	o := NewOrchestrator(testLogger(), WithWorkers(2), WithCallTimeout(50*time.Millisecond))
	res, err := o.Run(context.Background(), search.QueryPlan{Base: "data engineer", Queries: []string{"data engineer"}},
		[]scraper.SourceAdapter{healthy, stuck}, "", 10)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(res.Jobs) != 3 {
		t.Fatalf("expected 3 jobs from healthy adapter, got %d", len(res.Jobs))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly 1 recorded failure, got %v", res.Errors)
	}
	if res.Errors[0].Source != job.SourceNaukri {
		t.Fatalf("failure attributed to wrong source: %+v", res.Errors[0])
	}
}

func TestOrchestrator_FansOutPlanTimesAdapters(t *testing.T) {
	a := &stubAdapter{source: job.SourceMock, jobs: []job.Job{
		{Title: "Data Engineer", Company: "Acme", URL: "https://a.io/1", Source: job.SourceMock},
	}}
	plan := search.QueryPlan{Base: "data engineer", Queries: []string{"data engineer", "big data engineer", "etl developer"}}

	o := NewOrchestrator(testLogger(), WithWorkers(3))
	res, err := o.Run(context.Background(), plan, []scraper.SourceAdapter{a}, "", 10)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	// Three queries all return the same fixture; dedupe keeps one.
	if len(res.Jobs) != 1 {
		t.Fatalf("expected 1 unique job, got %d", len(res.Jobs))
	}
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	stuck := &stubAdapter{source: job.SourceMock, delay: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator(testLogger(), WithWorkers(1))
	_, err := o.Run(ctx, search.QueryPlan{Base: "x", Queries: []string{"x"}},
		[]scraper.SourceAdapter{stuck}, "", 10)
	if err == nil {
		t.Fatalf("expected context error")
	}
}
