package scraper

import (
	"context"
	"sync"
	"time"

	"jobpulse/internal/domain/job"
)

// FetchTask is one (adapter, query) unit of work executed by the pool.
type FetchTask func(ctx context.Context) ([]job.Job, error)

// FetchResult tags the task outcome with its origin so the caller can
// attribute partial failures to a concrete (source, query) pair.
type FetchResult struct {
	Source job.Source
	Query  string
	Jobs   []job.Job
	Err    error
}

// WorkerPool bounds concurrent adapter calls: a fixed worker count and
// an optional rate ticker shared by all workers, so a fan-out never
// exceeds either the local socket budget or a source's tolerance.
type WorkerPool struct {
	workers int
	tasks   chan taggedTask
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

type taggedTask struct {
	source job.Source
	query  string
	run    FetchTask
}

func NewWorkerPool(workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan taggedTask, buffer),
	}
}

func (p *WorkerPool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	p.mu.Unlock()
	if rps <= 0 {
		return
	}
	interval := time.Second / time.Duration(rps)
	t := time.NewTicker(interval)
	p.mu.Lock()
	p.ticker = t
	p.rate = t.C
	p.mu.Unlock()
}

func (p *WorkerPool) Submit(source job.Source, query string, t FetchTask) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- taggedTask{source: source, query: query, run: t}
}

func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	p.mu.Unlock()
	close(p.tasks)
}

// Run starts the workers and returns the result stream. The stream is
// closed once Close has been called and every submitted task finished
// or the context was cancelled.
func (p *WorkerPool) Run(ctx context.Context) <-chan FetchResult {
	if p == nil {
		out := make(chan FetchResult)
		close(out)
		return out
	}
	buf := p.workers * 64
	if buf < 1 {
		buf = 1
	}
	out := make(chan FetchResult, buf)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t.run == nil {
						continue
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					jobs, err := t.run(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- FetchResult{Source: t.source, Query: t.query, Jobs: jobs, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}
