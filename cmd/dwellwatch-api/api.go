// Package main provides the watchdog HTTP API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/dwellwatch/dwellwatch/pkg/runner"
	"github.com/dwellwatch/dwellwatch/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger   *slog.Logger
	runner   *runner.Runner
	policy   models.Policy
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, r *runner.Runner, policy models.Policy) *API {
	return &API{
		logger:   logger,
		runner:   r,
		policy:   policy,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.runner, a.policy, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Dwellwatch API")
	})

	app.Post("/runs", handlers.TriggerRun)
	app.Get("/policy", handlers.GetPolicy)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
