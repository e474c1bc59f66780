package routes

import (
	"disability-jobs/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, jobs *handler.JobsHandler, sync *handler.SyncHandler, geocode *handler.GeocodeHandler) {
	if r == nil {
		return
	}

	if jobs != nil {
		jobs.RegisterRoutes(r)
	}
	if sync != nil {
		sync.RegisterRoutes(r)
	}
	if geocode != nil {
		geocode.RegisterRoutes(r)
	}
}
