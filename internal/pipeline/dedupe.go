package pipeline

import "jobpulse/internal/domain/job"

// Deduplicator collapses postings that share a URL. The first record
// seen for a URL wins every populated field; later duplicates only
// fill fields the winner left empty. Arrival order of first-seen URLs
// is preserved, so result ordering is stable across identical inputs.
type Deduplicator struct {
	index map[string]int
	order []job.Job
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{index: make(map[string]int)}
}

// Merge folds a batch into the accumulated set and returns how many
// records were new.
func (d *Deduplicator) Merge(batch []job.Job) int {
	if d == nil {
		return 0
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	added := 0
	for _, j := range batch {
		if j.URL == "" {
			continue
		}
		if i, ok := d.index[j.URL]; ok {
			d.order[i] = fillEmpty(d.order[i], j)
			continue
		}
		d.index[j.URL] = len(d.order)
		d.order = append(d.order, j)
		added++
	}
	return added
}

// Jobs returns the deduplicated set in first-seen order.
func (d *Deduplicator) Jobs() []job.Job {
	if d == nil {
		return nil
	}
	out := make([]job.Job, len(d.order))
	copy(out, d.order)
	return out
}

// Len reports the number of unique postings accumulated so far.
func (d *Deduplicator) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// Dedupe is the one-shot form for callers without incremental batches.
func Dedupe(jobs []job.Job) []job.Job {
	d := NewDeduplicator()
	d.Merge(jobs)
	return d.Jobs()
}

func fillEmpty(winner, next job.Job) job.Job {
	if winner.Title == "" {
		winner.Title = next.Title
	}
	if winner.Company == "" {
		winner.Company = next.Company
	}
	if winner.Location == "" {
		winner.Location = next.Location
	}
	if winner.Description == "" {
		winner.Description = next.Description
	}
	if winner.PostedAt == nil {
		winner.PostedAt = next.PostedAt
	}
	return winner
}
