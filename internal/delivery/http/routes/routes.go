package routes

import (
	"github.com/gofiber/fiber/v3"

	"jobpulse/internal/delivery/http/handler"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/ws"
)

// Registry wires handlers onto the app. Handlers are built by the
// container; this layer only decides paths and guards.
type Registry struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Search      *handler.SearchHandler
	Jobs        *handler.JobsHandler
	Application *handler.ApplicationHandler
	Usage       *handler.UsageHandler
	WS          *ws.Handler

	AuthMW      *middleware.AuthMiddleware
	AccessLogMW *middleware.AccessLogMiddleware
	ErrorMW     *middleware.ErrorMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if r == nil || app == nil {
		return
	}

	if r.ErrorMW != nil {
		app.Use(r.ErrorMW.Middleware())
	}
	if r.AccessLogMW != nil {
		app.Use(r.AccessLogMW.Middleware())
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.WS != nil {
		app.Get("/ws/notifications", r.WS.HandleNotificationsWS)
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	if r.Auth != nil {
		r.Auth.RegisterRoutes(v1.Group("/auth"))
	}

	var protected fiber.Router = v1
	if r.AuthMW != nil {
		protected = v1.Group("", r.AuthMW.Middleware())
	}

	if r.Search != nil {
		r.Search.RegisterRoutes(protected)
	}
	if r.Jobs != nil {
		r.Jobs.RegisterRoutes(protected.Group("/jobs"))
	}
	if r.Application != nil {
		r.Application.RegisterRoutes(protected.Group("/applications"))
	}
	if r.Usage != nil {
		r.Usage.RegisterRoutes(protected)
	}
}
