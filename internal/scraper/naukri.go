package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"jobpulse/internal/domain/job"
)

// NaukriAdapter drives a headless browser against the Naukri search
// page; the site renders listings entirely client-side. Card fields are
// pulled out with an in-page evaluation so one navigation yields the
// whole visible result set.
type NaukriAdapter struct {
	siteBase string
	logger   *log.Logger
}

func NewNaukriAdapter(logger *log.Logger) *NaukriAdapter {
	return &NaukriAdapter{
		siteBase: "https://www.naukri.com",
		logger:   logger,
	}
}

func (a *NaukriAdapter) Source() job.Source {
	return job.SourceNaukri
}

type naukriCard struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
}

func (a *NaukriAdapter) Fetch(ctx context.Context, query, location string, limit int) ([]job.Job, error) {
	if a == nil {
		return nil, fmt.Errorf("nil adapter")
	}
	if limit <= 0 {
		limit = 10
	}

	url := a.searchURL(query, location)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(httpHeaders()["User-Agent"]),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 25*time.Second)
	defer reqCancel()

	var cards []naukriCard
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.EvaluateAsDevTools(`Array.from(document.querySelectorAll('.srp-jobtuple-wrapper')).map(n => {
			const t = n.querySelector('a.title');
			const c = n.querySelector('a.comp-name');
			const l = n.querySelector('span.locWdth');
			return {
				title: t ? t.textContent.trim() : '',
				company: c ? c.textContent.trim() : '',
				location: l ? l.textContent.trim() : '',
				url: t ? t.href : ''
			};
		})`, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("naukri headless fetch: %w", err)
	}

	if len(cards) == 0 {
		// Selector miss is a page-structure change, not a failure.
		if a.logger != nil {
			a.logger.Printf("[Scraper] Naukri card selector matched nothing | url=%s", url)
		}
		return nil, nil
	}

	out := make([]job.Job, 0, limit)
	dropped := 0
	for _, c := range cards {
		if len(out) >= limit {
			break
		}
		j := job.Job{
			Title:    strings.TrimSpace(c.Title),
			Company:  strings.TrimSpace(c.Company),
			Location: strings.TrimSpace(c.Location),
			URL:      normalizeURL(c.URL),
			Source:   job.SourceNaukri,
			PostedAt: observedNow(),
		}
		if !j.Complete() {
			dropped++
			continue
		}
		out = append(out, j)
	}
	if dropped > 0 && a.logger != nil {
		a.logger.Printf("[Scraper] Dropped incomplete naukri cards | count=%d", dropped)
	}
	return out, nil
}

func (a *NaukriAdapter) searchURL(query, location string) string {
	slug := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "-")
	}
	base := strings.TrimRight(a.siteBase, "/")
	q := slug(query)
	l := slug(location)
	switch {
	case q != "" && l != "":
		return fmt.Sprintf("%s/%s-jobs-in-%s", base, q, l)
	case q != "":
		return fmt.Sprintf("%s/%s-jobs", base, q)
	default:
		return base + "/jobs"
	}
}
