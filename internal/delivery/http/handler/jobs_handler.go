package handler

import (
	"errors"
	"fmt"
	"strconv"

	"disability-jobs/internal/delivery/http/dto"
	"disability-jobs/internal/delivery/http/middleware"
	"disability-jobs/internal/pkg/response"
	"disability-jobs/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var validate = validator.New()

// JobListQuery is the raw listing request after type conversion.
type JobListQuery struct {
	Page           int      `validate:"gte=0"`
	Limit          int      `validate:"gte=0"`
	SortField      string   `validate:"omitempty,oneof=updatedAt createdAt deadline distance"`
	SortOrder      string   `validate:"omitempty,oneof=asc desc"`
	Category       string   `validate:"max=200"`
	EmploymentType string   `validate:"omitempty,oneof=FULL_TIME CONTRACT PART_TIME INTERNSHIP TEMPORARY OTHER"`
	SalaryType     string   `validate:"max=50"`
	City           string   `validate:"max=50"`
	District       string   `validate:"max=50"`
	Query          string   `validate:"max=200"`
	UserLat        *float64 `validate:"omitempty,gte=-90,lte=90"`
	UserLng        *float64 `validate:"omitempty,gte=-180,lte=180"`
	MaxDistance    *float64 `validate:"omitempty,gt=0"`

	Remote        bool
	EnvBothHands  string
	EnvEyesight   string
	EnvHandwork   string
	EnvLiftPower  string
	EnvListenTalk string
	EnvStandWalk  string
}

func (q JobListQuery) params() usecase.JobListParams {
	return usecase.JobListParams{
		Page:           q.Page,
		Limit:          q.Limit,
		SortField:      q.SortField,
		SortOrder:      q.SortOrder,
		Remote:         q.Remote,
		Category:       q.Category,
		EmploymentType: q.EmploymentType,
		SalaryType:     q.SalaryType,
		City:           q.City,
		District:       q.District,
		Query:          q.Query,
		EnvBothHands:   q.EnvBothHands,
		EnvEyesight:    q.EnvEyesight,
		EnvHandwork:    q.EnvHandwork,
		EnvLiftPower:   q.EnvLiftPower,
		EnvListenTalk:  q.EnvListenTalk,
		EnvStandWalk:   q.EnvStandWalk,
		UserLat:        q.UserLat,
		UserLng:        q.UserLng,
		MaxDistance:    q.MaxDistance,
	}
}

type JobsHandler struct {
	uc usecase.JobListUsecase
}

func NewJobsHandler(uc usecase.JobListUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs", h.HandleListJobs)
	r.Get("/jobs/markers", h.HandleMarkers)
	r.Get("/jobs/:id", h.HandleGetJob)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	q, err := parseJobListQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.ListJobs(c.Context(), q.params())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListResponseData(res))
}

func (h *JobsHandler) HandleMarkers(c fiber.Ctx) error {
	q, err := parseJobListQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	markers, err := h.uc.Markers(c.Context(), q.params())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobMarkerResponses(markers))
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	}

	row, err := h.uc.GetJob(c.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		}
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(row))
}

func parseJobListQuery(c fiber.Ctx) (JobListQuery, error) {
	q := JobListQuery{
		SortField:      c.Query("sortField"),
		SortOrder:      c.Query("sortOrder"),
		Remote:         c.Query("isRemoteAvailable") == "true",
		Category:       c.Query("category"),
		EmploymentType: c.Query("employmentType"),
		SalaryType:     c.Query("salaryType"),
		City:           c.Query("city"),
		District:       c.Query("district"),
		Query:          c.Query("query"),
		EnvBothHands:   c.Query("envBothHands"),
		EnvEyesight:    c.Query("envEyesight"),
		EnvHandwork:    c.Query("envHandwork"),
		EnvLiftPower:   c.Query("envLiftPower"),
		EnvListenTalk:  c.Query("envListenTalk"),
		EnvStandWalk:   c.Query("envStandWalk"),
	}

	var err error
	if q.Page, err = parseQueryIntStrict(c, "page", 0); err != nil {
		return q, err
	}
	if q.Limit, err = parseQueryIntStrict(c, "limit", 0); err != nil {
		return q, err
	}
	if q.UserLat, err = parseQueryFloat(c, "userLat"); err != nil {
		return q, err
	}
	if q.UserLng, err = parseQueryFloat(c, "userLng"); err != nil {
		return q, err
	}
	if q.MaxDistance, err = parseQueryFloat(c, "maxDistance"); err != nil {
		return q, err
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseQueryFloat(c fiber.Ctx, key string) (*float64, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

func mapUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
