package job

import (
	"strings"
	"time"
)

// Source identifies the origin adapter of a posting. Downstream grouping
// (analytics, UI badges) relies on this being a closed set.
type Source string

const (
	SourceArbeitnow  Source = "arbeitnow"
	SourceHackerNews Source = "hackernews"
	SourceGreenhouse Source = "greenhouse"
	SourceLever      Source = "lever"
	SourceNaukri     Source = "naukri"
	SourceMock       Source = "mock"
)

var knownSources = map[Source]struct{}{
	SourceArbeitnow:  {},
	SourceHackerNews: {},
	SourceGreenhouse: {},
	SourceLever:      {},
	SourceNaukri:     {},
	SourceMock:       {},
}

func (s Source) Valid() bool {
	_, ok := knownSources[s]
	return ok
}

// Job is the canonical cross-source posting. URL is the sole identity
// key: two jobs with equal URL are the same entity no matter which
// adapter produced them.
type Job struct {
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	Source      Source
	PostedAt    *time.Time

	MatchScore   *float64
	MatchDetails map[string]any
}

// Complete reports whether the mandatory identity fields are present.
// Adapters drop incomplete records instead of emitting empty strings.
func (j Job) Complete() bool {
	return strings.TrimSpace(j.URL) != "" &&
		strings.TrimSpace(j.Title) != "" &&
		strings.TrimSpace(j.Company) != ""
}

// Profile is the search subject a run scores jobs against.
type Profile struct {
	Name       string
	Email      string
	Phone      string
	Skills     []string
	ResumeText string
}

// Corpus returns the matching text for the profile: resume text when
// present, otherwise the space-joined skill list.
func (p Profile) Corpus() string {
	if strings.TrimSpace(p.ResumeText) != "" {
		return p.ResumeText
	}
	return strings.Join(p.Skills, " ")
}
