package scraper

import (
	"context"
	"strings"
	"time"

	"jobpulse/internal/domain/job"
)

// MockAdapter returns fixture postings for demos and tests. Matching is
// deliberately permissive: any query token hitting title or description
// keeps the record.
type MockAdapter struct {
	now func() time.Time
}

func NewMockAdapter() *MockAdapter {
	return &MockAdapter{now: time.Now}
}

func (a *MockAdapter) Source() job.Source {
	return job.SourceMock
}

func (a *MockAdapter) Fetch(ctx context.Context, query, location string, limit int) ([]job.Job, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if limit <= 0 {
		limit = 10
	}

	now := a.now().UTC()
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	base := []job.Job{
		{Title: "Senior Python Developer", Company: "TechCorp", Location: "Remote",
			Description: "Expert in Python, Django, and Cloud.",
			URL:         "https://example.com/job1", Source: job.SourceMock, PostedAt: &now},
		{Title: "Frontend Engineer (React)", Company: "WebSols", Location: "New York",
			Description: "Looking for a React.js engineer. Experience with Redux.",
			URL:         "https://example.com/job2", Source: job.SourceMock, PostedAt: ago(24 * time.Hour)},
		{Title: "Data Scientist", Company: "DataAI", Location: "San Francisco",
			Description: "Machine Learning, Python, PyTorch, and SQL skills required.",
			URL:         "https://example.com/job3", Source: job.SourceMock, PostedAt: ago(5 * time.Hour)},
		{Title: "Backend Engineer", Company: "StartupX", Location: "Bangalore",
			Description: "Node.js or Python backend role. Fast paced environment.",
			URL:         "https://example.com/job4", Source: job.SourceMock, PostedAt: ago(48 * time.Hour)},
		{Title: "Senior Data Engineer", Company: "FinTech Global", Location: "Pune",
			Description: "Looking for PySpark, AWS, and Snowflake expert. Migration projects.",
			URL:         "https://example.com/job5", Source: job.SourceMock, PostedAt: ago(2 * time.Hour)},
		{Title: "Lead Data Engineer", Company: "BigData Corp", Location: "Remote",
			Description: "Experience with Airflow, Kafka, and Big Data pipelines required.",
			URL:         "https://example.com/job6", Source: job.SourceMock, PostedAt: ago(72 * time.Hour)},
	}

	tokens := strings.Fields(strings.ToLower(query))
	out := make([]job.Job, 0, limit)
	for _, j := range base {
		if len(out) >= limit {
			break
		}
		if !mockQueryMatch(j, tokens) {
			continue
		}
		if !mockLocationMatch(j, location) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func mockQueryMatch(j job.Job, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	corpus := strings.ToLower(j.Title + " " + j.Description)
	for _, t := range tokens {
		if strings.Contains(corpus, t) {
			return true
		}
	}
	return false
}

func mockLocationMatch(j job.Job, location string) bool {
	if location == "" {
		return true
	}
	if j.Location == "Remote" {
		return true
	}
	return containsFold(j.Location, location)
}
