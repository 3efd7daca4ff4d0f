package app

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"jobpulse/internal/config"
	"jobpulse/internal/database"
	"jobpulse/internal/database/migration"
	dbpostgres "jobpulse/internal/database/postgres"
	"jobpulse/internal/infrastructure/cache"
	"jobpulse/internal/matcher"
	"jobpulse/internal/pipeline"
	"jobpulse/internal/pkg/jwt"
	"jobpulse/internal/quota"
	"jobpulse/internal/repository"
	"jobpulse/internal/scheduler"
	"jobpulse/internal/scraper"
	"jobpulse/internal/usecase"
	"jobpulse/internal/ws"
)

// Container owns every long-lived dependency. Handlers and usecases
// hang off it; Close releases in reverse construction order.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   jwt.Service

	Adapters []scraper.SourceAdapter

	SearchUC      *usecase.SearchUsecase
	JobListUC     *usecase.JobListUsecase
	ApplicationUC *usecase.ApplicationUsecase
	UsageUC       *usecase.UsageUsecase
	AuthUC        *usecase.AuthUsecase
	MaintenanceUC *usecase.MaintenanceUsecase

	Scheduler *scheduler.Scheduler
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: "migrations"}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	hub := ws.NewHub(logger)
	go hub.Run()

	jwtSvc := jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	adapters := buildAdapters(cfg.Pipeline, logger)

	jobRepo := repository.NewPostgresJobRepository(db)
	appRepo := repository.NewPostgresApplicationRepository(db)
	usageRepo := repository.NewPostgresUsageEventRepository(db)
	tenantRepo := repository.NewPostgresTenantRepository(db)

	guard := quota.NewGuard(db, logger)

	keyword := matcher.NewKeywordMatcher()
	var semantic matcher.Matcher
	if cfg.Embedding.APIKey != "" {
		semantic = matcher.NewSemanticMatcher(matcher.NewOpenAIEmbedder(matcher.EmbedderConfig{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}), logger)
	}

	orchestrator := pipeline.NewOrchestrator(logger,
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithRateLimit(cfg.Pipeline.RateLimit),
	)

	searchUC := usecase.NewSearchUsecase(usecase.SearchDeps{
		Guard:        guard,
		Orchestrator: orchestrator,
		Adapters:     adapters,
		Semantic:     semantic,
		Keyword:      keyword,
		Jobs:         jobRepo,
		Notifier:     ws.NewNotifier(hub),
		Cache:        redisCache,
		FetchLimit:   cfg.Pipeline.FetchLimit,
		Logger:       logger,
	})

	retention := time.Duration(cfg.Pipeline.RetentionDays) * 24 * time.Hour
	maintenanceUC := usecase.NewMaintenanceUsecase(jobRepo, tenantRepo, retention, logger)

	c := &Container{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Cache:         redisCache,
		Hub:           hub,
		JWT:           jwtSvc,
		Adapters:      adapters,
		SearchUC:      searchUC,
		JobListUC:     usecase.NewJobListUsecase(jobRepo, logger),
		ApplicationUC: usecase.NewApplicationUsecase(appRepo, jobRepo, logger),
		UsageUC:       usecase.NewUsageUsecase(usageRepo),
		AuthUC:        usecase.NewAuthUsecase(tenantRepo, jwtSvc, logger),
		MaintenanceUC: maintenanceUC,
		Scheduler:     scheduler.New(maintenanceUC, cfg.Pipeline.SnapshotCron, logger),
	}
	return c, nil
}

func buildAdapters(cfg config.PipelineConfig, logger *log.Logger) []scraper.SourceAdapter {
	adapters := []scraper.SourceAdapter{
		scraper.NewArbeitnowAdapter(),
		scraper.NewHackerNewsAdapter(),
	}
	for _, t := range parseBoardTargets(cfg.BoardTargets, logger) {
		adapters = append(adapters, scraper.NewBoardAdapter(t, logger))
	}
	if cfg.EnableNaukri {
		adapters = append(adapters, scraper.NewNaukriAdapter(logger))
	}
	if cfg.EnableMock {
		adapters = append(adapters, scraper.NewMockAdapter())
	}
	return adapters
}

func parseBoardTargets(raw string, logger *log.Logger) []scraper.BoardTarget {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []scraper.BoardTarget
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 {
			if logger != nil {
				logger.Printf("[App] Ignoring malformed board target | entry=%q", entry)
			}
			continue
		}
		kind, company, url := parts[0], parts[1], parts[2]
		switch kind {
		case "greenhouse":
			out = append(out, scraper.GreenhouseTarget(company, url))
		case "lever":
			out = append(out, scraper.LeverTarget(company, url))
		default:
			if logger != nil {
				logger.Printf("[App] Unknown board kind | kind=%q", kind)
			}
		}
	}
	return out
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
