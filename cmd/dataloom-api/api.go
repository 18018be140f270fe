// Package main provides the Dataloom API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/dataloom/dataloom/pkg/engine"
	"github.com/dataloom/dataloom/pkg/eventbus"
	"github.com/dataloom/dataloom/pkg/persistence"
	"github.com/dataloom/dataloom/pkg/registry"
	"github.com/dataloom/dataloom/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	pool        *engine.Pool
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	store persistence.Persistence,
	reg *registry.Registry,
	eventBus eventbus.EventBus,
	pool *engine.Pool,
) *API {
	return &API{
		logger:      logger,
		persistence: store,
		registry:    reg,
		eventBus:    eventBus,
		pool:        pool,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.logger, a.persistence, a.registry, a.validate, a.eventBus, a.pool)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Dataloom API")
	})

	p := app.Group("/projects")
	p.Get("/", handlers.GetProjects)
	p.Post("/", handlers.CreateProject)
	p.Get("/:id", handlers.GetProject)
	p.Put("/:id", handlers.UpdateProject)
	p.Delete("/:id", handlers.DeleteProject)
	p.Post("/:id/execute", handlers.ExecuteProject)

	app.Get("/node-types", handlers.GetNodeTypes)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
