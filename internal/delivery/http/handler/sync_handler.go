package handler

import (
	"disability-jobs/internal/delivery/http/dto"
	"disability-jobs/internal/delivery/http/middleware"
	"disability-jobs/internal/pipeline"
	"disability-jobs/internal/pkg/response"
	"disability-jobs/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SyncHandler struct {
	uc usecase.SyncUsecase
}

func NewSyncHandler(uc usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

func (h *SyncHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/sync", h.HandleRunSync)
	r.Get("/sync", h.HandleStatus)
}

// HandleRunSync runs a sync to completion and returns its outcome. A run
// refused because another one is active answers 409.
func (h *SyncHandler) HandleRunSync(c fiber.Ctx) error {
	res := h.uc.RunSync(c.Context())
	out := dto.NewSyncRunResponse(res)
	if !res.Success && res.Error == pipeline.ErrSyncInProgress.Error() {
		return response.Error(c, fiber.StatusConflict, res.Error, out)
	}
	return response.Success(c, fiber.StatusOK, out.Message, out)
}

func (h *SyncHandler) HandleStatus(c fiber.Ctx) error {
	st, err := h.uc.GetStatus(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to get sync status", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSyncStatusResponse(st))
}
