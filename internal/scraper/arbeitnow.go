package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobpulse/internal/domain/job"
)

// ArbeitnowAdapter reads the Arbeitnow job-board API. The API exposes no
// server-side query filter worth trusting, so the latest batch is
// fetched and filtered client-side against title and tags.
type ArbeitnowAdapter struct {
	client  *http.Client
	apiBase string
}

func NewArbeitnowAdapter() *ArbeitnowAdapter {
	return &ArbeitnowAdapter{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiBase: "https://www.arbeitnow.com",
	}
}

func NewArbeitnowAdapterWithBaseURL(base string) *ArbeitnowAdapter {
	a := NewArbeitnowAdapter()
	if strings.TrimSpace(base) != "" {
		a.apiBase = strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return a
}

func (a *ArbeitnowAdapter) Source() job.Source {
	return job.SourceArbeitnow
}

type arbeitnowListing struct {
	Title    string   `json:"title"`
	Company  string   `json:"company_name"`
	Location string   `json:"location"`
	Remote   bool     `json:"remote"`
	Tags     []string `json:"tags"`
	URL      string   `json:"url"`
}

type arbeitnowResponse struct {
	Data []arbeitnowListing `json:"data"`
}

func (a *ArbeitnowAdapter) Fetch(ctx context.Context, query, location string, limit int) ([]job.Job, error) {
	if a == nil || a.client == nil {
		return nil, fmt.Errorf("nil adapter")
	}
	if limit <= 0 {
		limit = 10
	}

	url := strings.TrimRight(a.apiBase, "/") + "/api/job-board-api"
	body, err := httpGetWithRetry(ctx, a.client, url, 2)
	if err != nil {
		return nil, fmt.Errorf("arbeitnow fetch: %w", err)
	}

	var resp arbeitnowResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("arbeitnow decode: %w", err)
	}

	out := make([]job.Job, 0, limit)
	for _, it := range resp.Data {
		if len(out) >= limit {
			break
		}

		corpus := it.Title + " " + strings.Join(it.Tags, " ")
		if query != "" && !containsFold(corpus, query) {
			continue
		}
		if location != "" && !it.Remote && !containsFold(it.Location, location) {
			continue
		}

		loc := strings.TrimSpace(it.Location)
		if it.Remote {
			loc = strings.TrimSpace(loc + " (Remote)")
		}

		desc := ""
		if len(it.Tags) > 0 {
			desc = "Tags: " + strings.Join(it.Tags, ", ")
		}

		j := job.Job{
			Title:       strings.TrimSpace(it.Title),
			Company:     strings.TrimSpace(it.Company),
			Location:    loc,
			Description: desc,
			URL:         normalizeURL(it.URL),
			Source:      job.SourceArbeitnow,
			// The listing payload carries no usable posting date.
			PostedAt: observedNow(),
		}
		if !j.Complete() {
			continue
		}
		out = append(out, j)
	}

	return out, nil
}
