package routes

import (
	"time"

	"foodbridge-api/internal/adapters/http/handlers"
	"foodbridge-api/internal/adapters/http/middleware"
	"foodbridge-api/internal/adapters/realtime"
	"foodbridge-api/internal/config"
	"foodbridge-api/internal/core/domain"
	"foodbridge-api/internal/core/services"
	"foodbridge-api/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Dependencies are the services the HTTP layer is built from
type Dependencies struct {
	Config           *config.Config
	Tokens           *jwt.Manager
	AuthService      *services.AuthService
	UserService      *services.UserService
	DonationService  *services.DonationService
	DashboardService *services.DashboardService
	// Events serves the SSE donation feed when set
	Events *realtime.SSEHub
	// Ping reports database health; nil uses the global connection
	Ping func() error
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps *Dependencies) {
	cfg := deps.Config

	healthHandler := handlers.NewHealthHandler(cfg.AppMode, deps.Ping)
	authHandler := handlers.NewAuthHandler(deps.AuthService, cfg)
	userHandler := handlers.NewUserHandler(deps.UserService)
	donationHandler := handlers.NewDonationHandler(deps.DonationService, cfg.MaxUploadBytes())
	dashboardHandler := handlers.NewDashboardHandler(deps.DashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", middleware.NoCacheHeaders(), healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(deps.Tokens)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, auth)

	profileRoutes := apiV1.Group("/profile", auth)
	setupProfileRoutes(profileRoutes, userHandler)

	adminRoutes := apiV1.Group("/admin", auth, middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, userHandler, dashboardHandler)

	donationRoutes := apiV1.Group("/donations")
	if deps.Events != nil {
		donationRoutes.Get("/events", handlers.NewStreamHandler(deps.Events).Events)
	}
	setupDonationRoutes(donationRoutes, donationHandler, auth)

	apiV1.Get("/food-types", middleware.CacheControl(time.Hour), donationHandler.FoodTypes)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", auth, handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", middleware.StrictRateLimiter(), handler.ChangePassword)
	router.Put("/capacity", middleware.RoleMiddleware(domain.RoleNGO), handler.SetCapacity)
	router.Get("/impact", handler.GetImpact)
}

// setupAdminRoutes configures moderation routes (Admin only)
func setupAdminRoutes(router fiber.Router, users *handlers.UserHandler, dashboard *handlers.DashboardHandler) {
	router.Get("/dashboard", dashboard.GetAdminDashboard)

	router.Get("/users", users.ListUsers)
	router.Get("/users/:id", users.GetUser)
	router.Put("/users/:id/verify", users.VerifyNGO)
	router.Put("/users/:id/toggle-active", users.ToggleActive)
}

// setupDonationRoutes configures the donation feed and lifecycle routes
func setupDonationRoutes(router fiber.Router, handler *handlers.DonationHandler, auth fiber.Handler) {
	// Public feed
	router.Get("/", handler.List)
	router.Get("/nearby", handler.Nearby)

	// Static paths before /:id
	router.Get("/mine", auth, handler.Mine)
	router.Get("/:id", handler.Get)

	router.Post("/", auth, middleware.RoleMiddleware(domain.CreateRoles...), handler.Create)
	router.Put("/:id", auth, handler.Update)
	router.Post("/:id/images", auth, handler.UploadImages)

	// Lifecycle
	router.Post("/:id/claim", auth, middleware.RoleMiddleware(domain.RoleNGO), handler.Claim)
	router.Post("/:id/pickup", auth, middleware.RoleMiddleware(domain.RoleVolunteer), handler.PickUp)
	router.Post("/:id/deliver", auth, middleware.RoleMiddleware(domain.RoleVolunteer), handler.Deliver)
	router.Put("/:id/status", auth, handler.UpdateStatus)
}
