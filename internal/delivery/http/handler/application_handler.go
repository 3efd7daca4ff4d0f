package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobpulse/internal/delivery/http/dto"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/pkg/response"
	"jobpulse/internal/usecase"
)

type ApplicationHandler struct {
	uc *usecase.ApplicationUsecase
}

func NewApplicationHandler(uc *usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.HandleMarkApplied)
	r.Get("/", h.HandleList)
}

func (h *ApplicationHandler) HandleMarkApplied(c fiber.Ctx) error {
	tenantID, ok := middleware.TenantFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.ApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.MarkApplied(c.Context(), tenantID, jobID, req.Status, req.Notes); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		case errors.Is(err, pgx.ErrNoRows):
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *ApplicationHandler) HandleList(c fiber.Ctx) error {
	tenantID, ok := middleware.TenantFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.List(c.Context(), tenantID)
	if err != nil {
		return mapListError(err)
	}

	out := make([]dto.ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, dto.ApplicationResponse{
			ID:        a.ID.String(),
			JobID:     a.JobID.String(),
			Status:    a.Status,
			Notes:     a.Notes,
			AppliedAt: a.AppliedAt.UTC().Format(time.RFC3339),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
