package handler

import (
	"disability-jobs/internal/delivery/http/middleware"
	"disability-jobs/internal/pkg/response"
	"disability-jobs/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type GeocodeHandler struct {
	uc usecase.GeocodeUsecase
}

func NewGeocodeHandler(uc usecase.GeocodeUsecase) *GeocodeHandler {
	return &GeocodeHandler{uc: uc}
}

func (h *GeocodeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/geocode", h.HandleBatch)
	r.Get("/geocode", h.HandleStats)
}

func (h *GeocodeHandler) HandleBatch(c fiber.Ctx) error {
	reset := c.Query("reset") == "true"
	res, err := h.uc.Batch(c.Context(), reset)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "Geocoding failed", nil, err)
	}
	return response.Success(c, fiber.StatusOK, "Geocoding completed", res)
}

func (h *GeocodeHandler) HandleStats(c fiber.Ctx) error {
	st, err := h.uc.Stats(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to get geocode stats", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}
