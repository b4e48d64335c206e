package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/OpenFormsApp/OpenForms/app/controllers"
	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/cache"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/database"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/docstore"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/env"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/gateway"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/payment"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/router"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/submission"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()

	submissionService := submission.NewService(repos.UserApplication, repos.Application, submission.NewSMTPNotifier())

	gatewayClient := gateway.NewClientFromEnv()
	paymentService := payment.NewService(repos.Payment, repos.UserApplication, gatewayClient, gatewayClient.KeySecret)

	var documentStore *docstore.Client
	if cfg, err := docstore.LoadConfig(); err != nil {
		log.Printf("document storage disabled: %v", err)
	} else if cfg.IsEnabled() {
		documentStore, err = docstore.NewClient(cfg)
		if err != nil {
			log.Fatalf("failed to connect to document storage: %v", err)
		}
	}

	controllers.SetupControllers(submissionService, paymentService, documentStore)

	app := fiber.New(fiber.Config{
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: apperror.ErrorHandler,
	})
	app.Use(recover.New(), logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: env.GetEnv("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	router.InstallRouter(app)

	app.Use(apperror.NotFoundHandler)

	return app
}
