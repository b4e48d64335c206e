package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/OpenFormsApp/OpenForms/app/controllers"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "OK",
		})
	})

	v1 := api.Group("/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", controllers.HandleLogout)
	auth.Post("/refresh-token", controllers.HandleRefreshToken)
	auth.Post("/forgot-password", controllers.HandleForgotPassword)
	auth.Post("/reset-password", controllers.HandleResetPassword)
	auth.Post("/verify-email", controllers.HandleVerifyEmail)
	auth.Post("/change-password", middleware.RequireAuth(), controllers.HandleChangePassword)
	auth.Post("/resend-verification", middleware.RequireAuth(), controllers.HandleResendVerification)
	auth.Get("/profile", middleware.RequireAuth(), controllers.HandleGetProfile)
	auth.Put("/profile", middleware.RequireAuth(), controllers.HandleUpdateProfile)

	applications := v1.Group("/applications")
	applications.Get("/", controllers.HandleListApplications)
	applications.Get("/search", controllers.HandleSearchApplications)
	applications.Get("/categories", controllers.HandleGetCategories)
	applications.Get("/:id", controllers.HandleGetApplication)

	userApplications := v1.Group("/user-applications", middleware.RequireAuth())
	userApplications.Get("/", controllers.HandleListUserApplications)
	userApplications.Post("/", controllers.HandleSubmitForm)
	userApplications.Post("/documents", controllers.HandleSubmitDocuments)
	userApplications.Get("/:id", controllers.HandleGetUserApplication)
	userApplications.Put("/:id", controllers.HandleUpdateUserApplication)
	userApplications.Delete("/:id", controllers.HandleDeleteUserApplication)
	userApplications.Get("/:id/documents", controllers.HandleListDocuments)
	userApplications.Post("/:id/documents", controllers.HandleUploadDocument)

	payments := v1.Group("/payments", middleware.RequireAuth())
	payments.Post("/create-order", controllers.HandleCreatePaymentOrder)
	payments.Post("/verify", controllers.HandleVerifyPayment)
	payments.Get("/history", controllers.HandlePaymentHistory)
	payments.Get("/:id", controllers.HandleGetPayment)

	admin := v1.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())
	admin.Get("/dashboard", controllers.HandleAdminDashboard)
	admin.Get("/applications", controllers.HandleAdminListApplications)
	admin.Post("/applications", controllers.HandleAdminCreateApplication)
	admin.Get("/applications/:id", controllers.HandleAdminGetApplication)
	admin.Put("/applications/:id", controllers.HandleAdminUpdateApplication)
	admin.Delete("/applications/:id", controllers.HandleAdminDeleteApplication)
	admin.Get("/user-applications", controllers.HandleAdminListUserApplications)
	admin.Get("/user-applications/:id", controllers.HandleAdminGetUserApplication)
	admin.Put("/user-applications/:id/status", controllers.HandleAdminUpdateUserApplicationStatus)
	admin.Get("/users", controllers.HandleAdminListUsers)
	admin.Get("/users/:id", controllers.HandleAdminGetUser)
	admin.Put("/users/:id/status", controllers.HandleAdminUpdateUserStatus)
	admin.Get("/analytics/overview", controllers.HandleAdminAnalyticsOverview)
	admin.Get("/analytics/applications", controllers.HandleAdminAnalyticsApplications)
	admin.Get("/analytics/payments", controllers.HandleAdminAnalyticsPayments)
	admin.Put("/documents/:id/verify", controllers.HandleAdminVerifyDocument)
}
