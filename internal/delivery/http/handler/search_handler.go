package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"jobpulse/internal/delivery/http/dto"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/domain/job"
	"jobpulse/internal/pkg/response"
	"jobpulse/internal/usecase"
)

type SearchHandler struct {
	uc *usecase.SearchUsecase
}

func NewSearchHandler(uc *usecase.SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

func (h *SearchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/search", h.HandleSearch)
}

func (h *SearchHandler) HandleSearch(c fiber.Ctx) error {
	tenantID, ok := middleware.TenantFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.SearchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Search(c.Context(), tenantID, usecase.SearchParams{
		Query:    req.Query,
		Location: req.Location,
		Profile: job.Profile{
			Skills:     req.Skills,
			ResumeText: req.Resume,
		},
		Matcher: req.Matcher,
		Limit:   req.Limit,
	})
	if err != nil {
		return mapSearchError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func mapSearchError(err error) error {
	var qe *usecase.QuotaError
	if errors.As(err, &qe) {
		data := dto.QuotaRejection{
			Reason:            qe.Decision.Reason,
			RetryAfterSeconds: int(qe.Decision.RetryAfter.Seconds()),
			Remaining:         qe.Decision.Remaining,
		}
		return middleware.NewAppError(fiber.StatusTooManyRequests, response.MessageTooManyRequests, data, err)
	}
	if errors.Is(err, usecase.ErrInvalidInput) {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
