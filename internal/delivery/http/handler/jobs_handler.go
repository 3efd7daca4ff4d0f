package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"jobpulse/internal/delivery/http/dto"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/domain/job"
	"jobpulse/internal/pkg/response"
	"jobpulse/internal/repository"
	"jobpulse/internal/usecase"
)

type JobsHandler struct {
	uc *usecase.JobListUsecase
}

func NewJobsHandler(uc *usecase.JobListUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.HandleListJobs)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	tenantID, ok := middleware.TenantFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	filter := repository.ListFilter{
		Limit:       limit,
		Offset:      offset,
		Source:      job.Source(c.Query("source")),
		OnlyApplied: c.Query("applied") == "true",
	}
	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		filter.MinScore = &v
	}

	items, err := h.uc.List(c.Context(), tenantID, filter)
	if err != nil {
		return mapListError(err)
	}

	out := make([]dto.JobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, storedJobToDTO(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func storedJobToDTO(s repository.StoredJob) dto.JobResponse {
	posted := ""
	if s.Job.PostedAt != nil && !s.Job.PostedAt.IsZero() {
		posted = s.Job.PostedAt.UTC().Format(time.RFC3339)
	}
	return dto.JobResponse{
		ID:           s.ID.String(),
		Title:        s.Job.Title,
		Company:      s.Job.Company,
		Location:     s.Job.Location,
		Description:  s.Job.Description,
		URL:          s.Job.URL,
		Source:       string(s.Job.Source),
		PostedAt:     posted,
		MatchScore:   s.Job.MatchScore,
		MatchDetails: s.Job.MatchDetails,
		Applied:      s.Applied,
	}
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func mapListError(err error) error {
	if errors.Is(err, usecase.ErrInvalidInput) {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
