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

// HackerNewsAdapter pulls job stories from the official Firebase API.
// Story titles usually read "Company | Role | Location", which is the
// only structure on offer; records the heuristic cannot split keep the
// full title and a placeholder company.
type HackerNewsAdapter struct {
	client  *http.Client
	apiBase string
}

func NewHackerNewsAdapter() *HackerNewsAdapter {
	return &HackerNewsAdapter{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiBase: "https://hacker-news.firebaseio.com/v0",
	}
}

func NewHackerNewsAdapterWithBaseURL(base string) *HackerNewsAdapter {
	a := NewHackerNewsAdapter()
	if strings.TrimSpace(base) != "" {
		a.apiBase = strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return a
}

func (a *HackerNewsAdapter) Source() job.Source {
	return job.SourceHackerNews
}

type hnItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	Time  int64  `json:"time"`
}

func (a *HackerNewsAdapter) Fetch(ctx context.Context, query, location string, limit int) ([]job.Job, error) {
	if a == nil || a.client == nil {
		return nil, fmt.Errorf("nil adapter")
	}
	if limit <= 0 {
		limit = 10
	}

	ids, err := a.fetchJobStoryIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("hackernews stories: %w", err)
	}
	if len(ids) > limit*2 {
		// Fetch a little beyond the limit so client-side filtering still
		// has something to keep.
		ids = ids[:limit*2]
	}

	out := make([]job.Job, 0, limit)
	for _, id := range ids {
		if len(out) >= limit {
			break
		}
		item, err := a.fetchItem(ctx, id)
		if err != nil {
			// One unreachable item never fails the batch.
			continue
		}
		j, ok := parseHNItem(item)
		if !ok {
			continue
		}
		if query != "" && !containsFold(j.Title+" "+j.Description, query) {
			continue
		}
		if location != "" && j.Location != "" && !containsFold(j.Location, location) {
			continue
		}
		out = append(out, j)
	}

	return out, nil
}

func (a *HackerNewsAdapter) fetchJobStoryIDs(ctx context.Context) ([]int, error) {
	body, err := httpGetWithRetry(ctx, a.client, a.apiBase+"/jobstories.json", 2)
	if err != nil {
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (a *HackerNewsAdapter) fetchItem(ctx context.Context, id int) (hnItem, error) {
	body, err := httpGetWithRetry(ctx, a.client, fmt.Sprintf("%s/item/%d.json", a.apiBase, id), 1)
	if err != nil {
		return hnItem{}, err
	}
	var it hnItem
	if err := json.Unmarshal(body, &it); err != nil {
		return hnItem{}, err
	}
	return it, nil
}

func parseHNItem(it hnItem) (job.Job, bool) {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		return job.Job{}, false
	}

	url := strings.TrimSpace(it.URL)
	if url == "" {
		url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
	}

	company := "Hacker News (Unknown Company)"
	role := title
	location := ""
	parts := strings.Split(title, "|")
	if len(parts) >= 2 {
		company = strings.TrimSpace(parts[0])
		role = strings.TrimSpace(parts[1])
		if len(parts) > 2 {
			location = strings.TrimSpace(parts[2])
		}
	}

	var posted *time.Time
	if it.Time > 0 {
		t := time.Unix(it.Time, 0).UTC()
		posted = &t
	}

	j := job.Job{
		Title:       role,
		Company:     company,
		Location:    location,
		Description: strings.TrimSpace(it.Text),
		URL:         url,
		Source:      job.SourceHackerNews,
		PostedAt:    posted,
	}
	if !j.Complete() {
		return job.Job{}, false
	}
	return j, true
}
