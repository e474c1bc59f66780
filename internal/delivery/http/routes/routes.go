package routes

import (
	"disability-jobs/internal/delivery/http/handler"
	"disability-jobs/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health  *handler.HealthHandler
	jobs    *handler.JobsHandler
	sync    *handler.SyncHandler
	geocode *handler.GeocodeHandler
	ws      *ws.Handler
}

func NewRegistry(
	health *handler.HealthHandler,
	jobs *handler.JobsHandler,
	sync *handler.SyncHandler,
	geocode *handler.GeocodeHandler,
	wsHandler *ws.Handler,
) *Registry {
	return &Registry{health: health, jobs: jobs, sync: sync, geocode: geocode, ws: wsHandler}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.jobs, r.sync, r.geocode)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws != nil {
		app.Get("/ws/sync", r.ws.HandleSyncWS)
	}
}
