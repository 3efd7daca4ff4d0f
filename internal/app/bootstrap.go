package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"jobpulse/internal/config"
	"jobpulse/internal/delivery/http/handler"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/delivery/http/routes"
	"jobpulse/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	registry := &routes.Registry{
		Health:      handler.NewHealthHandler(c.DB, c.Cache),
		Auth:        handler.NewAuthHandler(c.AuthUC),
		Search:      handler.NewSearchHandler(c.SearchUC),
		Jobs:        handler.NewJobsHandler(c.JobListUC),
		Application: handler.NewApplicationHandler(c.ApplicationUC),
		Usage:       handler.NewUsageHandler(c.UsageUC),
		WS:          ws.NewHandler(c.Hub, c.JWT, c.Logger),

		AuthMW:      middleware.NewAuthMiddleware(c.JWT),
		AccessLogMW: middleware.NewAccessLogMiddleware(c.Logger),
		ErrorMW:     middleware.NewErrorMiddleware(),
	}
	registry.Register(f)

	cleanup := func() error {
		return c.Close()
	}
	return &App{Fiber: f, Container: c}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
