package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"jobpulse/internal/usecase"
)

// Scheduler runs the retention sweep on a cron spec, e.g. "@daily" or
// "@every 6h". Nothing else in the service depends on it; disabling
// the spec simply skips maintenance.
type Scheduler struct {
	cron        *cron.Cron
	maintenance *usecase.MaintenanceUsecase
	spec        string
	logger      *log.Logger
}

func New(maintenance *usecase.MaintenanceUsecase, spec string, logger *log.Logger) *Scheduler {
	if spec == "" {
		spec = "@daily"
	}
	return &Scheduler{
		cron:        cron.New(cron.WithLogger(cron.DefaultLogger)),
		maintenance: maintenance,
		spec:        spec,
		logger:      logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil || s.maintenance == nil {
		return fmt.Errorf("nil scheduler")
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	if s.logger != nil {
		s.logger.Printf("[Scheduler] Cron started | spec=%s", s.spec)
	}
	return nil
}

func (s *Scheduler) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Stop()
	if s.logger != nil {
		s.logger.Printf("[Scheduler] Cron stopped")
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	if s.logger != nil {
		s.logger.Printf("[Scheduler] Retention sweep started")
	}
	if err := s.maintenance.PurgeAll(ctx); err != nil {
		if s.logger != nil {
			s.logger.Printf("[Scheduler] Retention sweep failed | err=%v", err)
		}
		return
	}
	if s.logger != nil {
		s.logger.Printf("[Scheduler] Retention sweep complete")
	}
}
