package handler

import (
	"github.com/gofiber/fiber/v3"

	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/pkg/response"
	"jobpulse/internal/usecase"
)

type UsageHandler struct {
	uc *usecase.UsageUsecase
}

func NewUsageHandler(uc *usecase.UsageUsecase) *UsageHandler {
	return &UsageHandler{uc: uc}
}

func (h *UsageHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/usage", h.HandleUsage)
}

func (h *UsageHandler) HandleUsage(c fiber.Ctx) error {
	tenantID, ok := middleware.TenantFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	report, err := h.uc.Report(c.Context(), tenantID)
	if err != nil {
		return mapListError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}
