package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"jobpulse/internal/domain/job"
)

// BoardTarget describes one scraped ATS board page: where the listing
// lives and which selectors carry the fields. The page structure is
// unversioned and adversarial, so every selector is best-effort.
type BoardTarget struct {
	Source           job.Source
	CompanyName      string
	ListURL          string
	ItemSelector     string
	TitleSelector    string
	LocationSelector string
}

// GreenhouseTarget builds the selector set for a Greenhouse board page,
// e.g. https://boards.greenhouse.io/acme.
func GreenhouseTarget(companyName, listURL string) BoardTarget {
	return BoardTarget{
		Source:           job.SourceGreenhouse,
		CompanyName:      companyName,
		ListURL:          listURL,
		ItemSelector:     "div.opening",
		TitleSelector:    "a",
		LocationSelector: "span.location",
	}
}

// LeverTarget builds the selector set for a Lever postings page,
// e.g. https://jobs.lever.co/acme.
func LeverTarget(companyName, listURL string) BoardTarget {
	return BoardTarget{
		Source:           job.SourceLever,
		CompanyName:      companyName,
		ListURL:          listURL,
		ItemSelector:     "div.posting",
		TitleSelector:    "a.posting-title h5",
		LocationSelector: "div.posting-categories",
	}
}

// BoardAdapter scrapes one HTML ATS board with colly. A selector miss is
// zero results plus a warning, never an error: the page owner may have
// reshuffled the markup and siblings must keep running.
type BoardAdapter struct {
	target BoardTarget
	logger *log.Logger
}

func NewBoardAdapter(target BoardTarget, logger *log.Logger) *BoardAdapter {
	return &BoardAdapter{target: target, logger: logger}
}

func (a *BoardAdapter) Source() job.Source {
	return a.target.Source
}

func (a *BoardAdapter) Fetch(ctx context.Context, query, location string, limit int) ([]job.Job, error) {
	if a == nil || strings.TrimSpace(a.target.ListURL) == "" {
		return nil, fmt.Errorf("nil adapter or empty list url")
	}
	if limit <= 0 {
		limit = 10
	}

	items, err := a.scrapeListingPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s board fetch: %w", a.target.Source, err)
	}
	if len(items) == 0 {
		if a.logger != nil {
			a.logger.Printf("[Scraper] Board selector matched nothing | source=%s url=%s", a.target.Source, a.target.ListURL)
		}
		return nil, nil
	}

	out := make([]job.Job, 0, limit)
	for _, j := range items {
		if len(out) >= limit {
			break
		}
		if query != "" && !containsFold(j.Title, query) {
			continue
		}
		if location != "" && j.Location != "" && !containsFold(j.Location, location) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (a *BoardAdapter) scrapeListingPage(ctx context.Context) ([]job.Job, error) {
	allowed := hostFromURL(a.target.ListURL)
	var c *colly.Collector
	if allowed == "" {
		c = colly.NewCollector()
	} else {
		c = colly.NewCollector(colly.AllowedDomains(allowed))
	}
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 850 * time.Millisecond, Delay: 450 * time.Millisecond})

	items := make([]job.Job, 0)
	dedup := map[string]struct{}{}
	dropped := 0

	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	c.OnHTML(a.target.ItemSelector, func(e *colly.HTMLElement) {
		link := e.DOM.Find("a").First()
		href, _ := link.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			dropped++
			return
		}
		abs := normalizeURL(e.Request.AbsoluteURL(href))
		if abs == "" {
			dropped++
			return
		}
		if _, ok := dedup[abs]; ok {
			return
		}
		dedup[abs] = struct{}{}

		title := strings.TrimSpace(e.DOM.Find(a.target.TitleSelector).First().Text())
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}
		loc := ""
		if a.target.LocationSelector != "" {
			loc = strings.TrimSpace(e.DOM.Find(a.target.LocationSelector).First().Text())
		}

		j := job.Job{
			Title:    title,
			Company:  strings.TrimSpace(a.target.CompanyName),
			Location: loc,
			URL:      abs,
			Source:   a.target.Source,
			PostedAt: observedNow(),
		}
		if !j.Complete() {
			dropped++
			return
		}
		items = append(items, j)
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := c.Visit(a.target.ListURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	if dropped > 0 && a.logger != nil {
		a.logger.Printf("[Scraper] Dropped incomplete board records | source=%s count=%d", a.target.Source, dropped)
	}
	return items, nil
}
