package matcher

import (
	"context"
	"math"

	"jobpulse/internal/domain/job"
)

// MatchResult is one scored comparison between a posting and a
// profile. Score is 0..100 with two-decimal precision; Details carries
// strategy-specific evidence for the UI.
type MatchResult struct {
	Score   float64
	Details map[string]any
}

// Matcher scores one posting against one profile. Implementations must
// never panic on missing profile data; an unusable input scores 0 with
// an explanatory detail.
type Matcher interface {
	Name() string
	Match(ctx context.Context, j job.Job, p job.Profile) (MatchResult, error)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampScore(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
