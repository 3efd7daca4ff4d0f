package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"jobpulse/internal/domain/job"
	"jobpulse/internal/matcher"
	"jobpulse/internal/pipeline"
	"jobpulse/internal/scraper"
	"jobpulse/internal/search"
)

// One-shot aggregation run against the live sources, without the
// server, database or quota. Useful for trying queries and adapters.
func main() {
	query := flag.String("query", "", "job search query")
	location := flag.String("location", "", "job location")
	skills := flag.String("skills", "", "comma-separated skills to score against")
	limit := flag.Int("limit", 10, "max results per source per query")
	workers := flag.Int("workers", 4, "concurrent fetches")
	useMock := flag.Bool("mock", false, "include the fixture source")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	q := strings.TrimSpace(*query)
	if q == "" {
		log.Fatalf("provide -query")
	}

	adapters := []scraper.SourceAdapter{
		scraper.NewArbeitnowAdapter(),
		scraper.NewHackerNewsAdapter(),
	}
	if *useMock {
		adapters = append(adapters, scraper.NewMockAdapter())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	plan := search.Expand(q)
	logger.Printf("[Agent] Plan | queries=%v", plan.Queries)

	o := pipeline.NewOrchestrator(logger, pipeline.WithWorkers(*workers))
	res, err := o.Run(ctx, plan, adapters, strings.TrimSpace(*location), *limit)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}
	for _, e := range res.Errors {
		logger.Printf("[Agent] Source failed | %v", e)
	}

	profile := job.Profile{Skills: splitSkills(*skills)}
	kw := matcher.NewKeywordMatcher()

	for _, j := range res.Jobs {
		line := fmt.Sprintf("%-12s %-45.45s %-25.25s %s", j.Source, j.Title, j.Company, j.URL)
		if len(profile.Skills) > 0 {
			if m, err := kw.Match(ctx, j, profile); err == nil {
				line = fmt.Sprintf("%6.2f  %s", m.Score, line)
			}
		}
		fmt.Println(line)
	}
	logger.Printf("[Agent] Done | unique=%d errors=%d dropped=%d", len(res.Jobs), len(res.Errors), res.Dropped)
}

func splitSkills(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
