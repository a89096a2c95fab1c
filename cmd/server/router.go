package main

import (
	"context"

	"user-vault/cmd/server/handlers"
	"user-vault/cmd/server/handlers/httperr"
	usersHandlers "user-vault/cmd/server/handlers/users"
	"user-vault/cmd/server/middlewares"
	"user-vault/internal/clients/mongo"
	"user-vault/internal/config"
	"user-vault/internal/logger"
	usersServices "user-vault/internal/services/users"
	"user-vault/internal/utils/crypto"

	_ "user-vault/docs" // Load swagger docs

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(ctx context.Context, cfg config.Config) *fiber.App {

	// Initialize validator and register password validation
	v := validator.New()
	if err := crypto.RegisterPasswordValidator(v); err != nil {
		logger.L().Error("failed to register password validator", "err", err)
		panic(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		Immutable:    true, // make Fiber copy all request-derived strings
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Authorization",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app)
	}

	if cfg.RequestLoggingEnabled {
		app.Use(fiberlogger.New())
		logger.L().Info("request logging enabled")
	}

	// Liveness and health endpoints stay outside auth
	app.Get("/", handlers.Root)
	app.Get("/healthz", handlers.Healthz)

	app.Get("/docs/*", swagger.HandlerDefault)

	usersRepo, err := mongo.NewUsersRepo(ctx, mongo.DB())
	if err != nil {
		logger.L().Error("failed to create users repository", "error", err)
		panic(err)
	}
	usersSvc := usersServices.NewService(usersRepo, cfg, logger.L())
	usersH := usersHandlers.NewHandlers(usersSvc, v)

	authMW := middlewares.Auth(cfg)

	app.Post("/register", usersH.Register)
	app.Post("/login", usersH.Login)
	app.Get("/users", authMW, usersH.List)
	app.Get("/getUser/:id", authMW, usersH.Get)
	app.Put("/updateUser/:id", authMW, usersH.Update)
	app.Delete("/deleteUser/:id", authMW, usersH.Delete)

	return app
}
