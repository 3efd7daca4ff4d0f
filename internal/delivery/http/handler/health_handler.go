package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"jobpulse/internal/pkg/response"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    pinger
	cache pinger
}

func NewHealthHandler(db, cache pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/healthz", h.HandleHealth)
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"db": "ok", "cache": "ok"}
	healthy := true
	if h.db == nil || h.db.Ping(ctx) != nil {
		status["db"] = "down"
		healthy = false
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		// A cold cache is degraded, not down; the pipeline bypasses it.
		status["cache"] = "bypassed"
	}

	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, "degraded", status)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, status)
}
