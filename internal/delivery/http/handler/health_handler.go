package handler

import (
	"context"
	"time"

	"disability-jobs/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is anything whose reachability can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	redis Pinger
}

type healthData struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.HandleHealth)
}

// HandleHealth answers 503 only when the database is down; redis is optional.
func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := healthData{Database: pingStatus(ctx, h.db), Redis: pingStatus(ctx, h.redis)}
	if data.Database != "up" {
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
