package app

import (
	"context"
	"fmt"
	"strings"

	"disability-jobs/internal/delivery/http/handler"
	"disability-jobs/internal/delivery/http/middleware"
	"disability-jobs/internal/delivery/http/routes"
	"disability-jobs/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application on top of an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects every dependency, applies migrations and starts the
// websocket hub. The returned cleanup stops the hub and closes connections.
func Bootstrap(ctx context.Context, c *Container) (*App, func() error, error) {
	if err := c.Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	go c.Hub.Run(hubCtx)

	app := New(c)
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	accessLog := middleware.NewAccessLogMiddleware(c.Logger)
	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(accessLog.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	var redisPinger handler.Pinger
	if c.Redis != nil && c.Config.Redis.Enabled {
		redisPinger = c.Redis
	}

	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, redisPinger),
		handler.NewJobsHandler(c.JobList),
		handler.NewSyncHandler(c.SyncUC),
		handler.NewGeocodeHandler(c.GeocodeUC),
		ws.NewHandler(c.Hub, c.Logger, c.Config.App.WSAllowedOrigins...),
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
