package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobpulse/internal/domain/job"
)

func TestArbeitnowAdapter_FetchAndFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/job-board-api", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [
			{"title": "Senior Data Engineer", "company_name": "Acme", "location": "Berlin", "remote": true,
			 "tags": ["python", "spark"], "url": "https://arbeitnow.com/jobs/1"},
			{"title": "Office Manager", "company_name": "Acme", "location": "Munich", "remote": false,
			 "tags": [], "url": "https://arbeitnow.com/jobs/2"},
			{"title": "Data Platform Engineer", "company_name": "", "location": "Berlin", "remote": true,
			 "tags": ["data"], "url": "https://arbeitnow.com/jobs/3"}
		]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	a := NewArbeitnowAdapterWithBaseURL(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jobs, err := a.Fetch(ctx, "data", "", 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	// The office manager fails the query filter, the third record lacks
	// a company and is dropped.
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	j := jobs[0]
	if j.Source != job.SourceArbeitnow {
		t.Fatalf("unexpected source %q", j.Source)
	}
	if !strings.Contains(j.Location, "Remote") {
		t.Fatalf("expected remote marker in location, got %q", j.Location)
	}
	if j.PostedAt == nil {
		t.Fatalf("expected observed-now date")
	}
}

func TestArbeitnowAdapter_Non2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	a := NewArbeitnowAdapterWithBaseURL(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := a.Fetch(ctx, "data", "", 10); err == nil {
		t.Fatalf("expected error on 503")
	}
}

func TestHackerNewsAdapter_ParsesPipeTitles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobstories.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[101, 102]`))
	})
	mux.HandleFunc("/item/101.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 101, "title": "Acme | Data Engineer | Remote", "url": "https://acme.io/jobs/1", "time": 1735689600}`))
	})
	mux.HandleFunc("/item/102.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 102, "title": "Plain hiring post without structure", "time": 1735689600}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	a := NewHackerNewsAdapterWithBaseURL(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jobs, err := a.Fetch(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	first := jobs[0]
	if first.Company != "Acme" || first.Title != "Data Engineer" || first.Location != "Remote" {
		t.Fatalf("pipe title not split: %+v", first)
	}
	if first.PostedAt == nil || first.PostedAt.Year() != 2025 {
		t.Fatalf("expected posted date from item time, got %v", first.PostedAt)
	}

	second := jobs[1]
	if second.Company != "Hacker News (Unknown Company)" {
		t.Fatalf("expected placeholder company, got %q", second.Company)
	}
	if !strings.Contains(second.URL, "news.ycombinator.com/item?id=102") {
		t.Fatalf("expected fallback item url, got %q", second.URL)
	}
}

func TestHackerNewsAdapter_ItemFailureSkipsRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobstories.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[201, 202]`))
	})
	mux.HandleFunc("/item/201.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/item/202.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 202, "title": "Beta | Backend Engineer", "url": "https://beta.io/jobs/2", "time": 1735689600}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	a := NewHackerNewsAdapterWithBaseURL(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jobs, err := a.Fetch(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 surviving job, got %d", len(jobs))
	}
	if jobs[0].Company != "Beta" {
		t.Fatalf("unexpected record survived: %+v", jobs[0])
	}
}

func TestBoardAdapter_Greenhouse(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="opening"><a href="/acme/jobs/1">Data Engineer</a><span class="location">Remote</span></div>
			<div class="opening"><a href="/acme/jobs/2">Accountant</a><span class="location">Berlin</span></div>
			<div class="opening"><span class="location">Orphan without link</span></div>
		</body></html>`))
	}))
	defer server.Close()

	target := GreenhouseTarget("Acme", server.URL+"/acme")
	a := NewBoardAdapter(target, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	jobs, err := a.Fetch(ctx, "engineer", "", 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after query filter, got %d", len(jobs))
	}
	j := jobs[0]
	if j.Title != "Data Engineer" || j.Company != "Acme" || j.Location != "Remote" {
		t.Fatalf("unexpected record: %+v", j)
	}
	if j.Source != job.SourceGreenhouse {
		t.Fatalf("unexpected source %q", j.Source)
	}
	if !strings.HasPrefix(j.URL, server.URL) {
		t.Fatalf("expected absolute url, got %q", j.URL)
	}
}

func TestBoardAdapter_SelectorMissIsZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>markup changed entirely</p></body></html>`))
	}))
	defer server.Close()

	a := NewBoardAdapter(GreenhouseTarget("Acme", server.URL), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	jobs, err := a.Fetch(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("selector miss must not be an error, got %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected zero results, got %d", len(jobs))
	}
}

func TestMockAdapter_TokenAndLocationFilter(t *testing.T) {
	a := NewMockAdapter()
	ctx := context.Background()

	jobs, err := a.Fetch(ctx, "data engineer", "Pune", 10)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(jobs) == 0 {
		t.Fatalf("expected matches for data engineer in Pune")
	}
	for _, j := range jobs {
		if j.Location != "Remote" && !strings.Contains(strings.ToLower(j.Location), "pune") {
			t.Fatalf("location filter leaked: %+v", j)
		}
		if !j.Complete() {
			t.Fatalf("incomplete fixture: %+v", j)
		}
	}
}
