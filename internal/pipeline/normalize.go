package pipeline

import (
	"strings"

	"jobpulse/internal/domain/job"
)

// Normalize cleans a raw adapter batch into storable records. Records
// missing a url, title or company are dropped rather than patched; a
// posting the user cannot open or attribute is worthless downstream.
func Normalize(in []job.Job) []job.Job {
	out := make([]job.Job, 0, len(in))
	for _, j := range in {
		j.Title = collapseSpace(j.Title)
		j.Company = collapseSpace(j.Company)
		j.Location = collapseSpace(j.Location)
		j.Description = strings.TrimSpace(j.Description)
		j.URL = strings.TrimSpace(j.URL)
		if !j.Source.Valid() {
			continue
		}
		if !j.Complete() {
			continue
		}
		out = append(out, j)
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
