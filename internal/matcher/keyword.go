package matcher

import (
	"context"
	"strings"

	"jobpulse/internal/domain/job"
)

const titleBoostFactor = 1.2

// KeywordMatcher scores by skill containment: the fraction of profile
// skills found in the posting text, boosted when a matched skill sits
// in the title itself.
type KeywordMatcher struct{}

func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{}
}

func (m *KeywordMatcher) Name() string { return "keyword" }

func (m *KeywordMatcher) Match(ctx context.Context, j job.Job, p job.Profile) (MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}

	skills := trimmedSkills(p.Skills)
	if len(skills) == 0 {
		return MatchResult{
			Score:   0,
			Details: map[string]any{"strategy": "keyword", "reason": "no skills in profile"},
		}, nil
	}

	corpus := strings.ToLower(j.Title + " " + j.Description)
	title := strings.ToLower(j.Title)

	matched := make([]string, 0, len(skills))
	missing := make([]string, 0)
	titleHit := false
	for _, s := range skills {
		ls := strings.ToLower(s)
		if strings.Contains(corpus, ls) {
			matched = append(matched, s)
			if strings.Contains(title, ls) {
				titleHit = true
			}
		} else {
			missing = append(missing, s)
		}
	}

	score := float64(len(matched)) / float64(len(skills)) * 100
	if titleHit {
		score *= titleBoostFactor
	}
	score = round2(clampScore(score))

	return MatchResult{
		Score: score,
		Details: map[string]any{
			"strategy":       "keyword",
			"matched_skills": matched,
			"missing_skills": missing,
			"title_boost":    titleHit,
		},
	}, nil
}

func trimmedSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
