package routes

import (
	"time"

	"alliance-srp/internal/adapters/http/handlers"
	"alliance-srp/internal/adapters/http/middleware"
	"alliance-srp/internal/adapters/persistence/repositories"
	"alliance-srp/internal/config"
	"alliance-srp/internal/core/services"
	"alliance-srp/internal/core/shipclass"
	"alliance-srp/internal/pkg/lock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Container holds the wired repositories and services
type Container struct {
	ShipClassRepo repositories.ShipClassRepository
	Registry      *shipclass.Registry

	Auth          *services.AuthService
	Users         *services.UserService
	Claims        *services.ClaimService
	Fleets        *services.FleetService
	Reports       *services.ReportService
	Notifications *services.NotificationService
	Cron          *services.CronService
}

// NewContainer wires repositories and services on top of db.
// The review lock uses Redis when ConnectRedis succeeded and is a no-op otherwise.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	claimRepo := repositories.NewClaimRepository(db)
	fleetRepo := repositories.NewFleetRepository(db)
	shipClassRepo := repositories.NewShipClassRepository(db)

	registry := shipclass.NewRegistry(shipClassRepo, config.GetLogger())
	locker := lock.NewRedisLocker(config.GetRedisLock(), lock.DefaultTTL)
	notifier := services.NewNotificationService(cfg.Notify)

	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	claimService := services.NewClaimService(claimRepo, fleetRepo, userRepo, registry, locker, notifier, cfg.SRP)
	reportService := services.NewReportService(claimRepo, claimService)

	return &Container{
		ShipClassRepo: shipClassRepo,
		Registry:      registry,
		Auth:          authService,
		Users:         services.NewUserService(userRepo),
		Claims:        claimService,
		Fleets:        services.NewFleetService(fleetRepo, claimService),
		Reports:       reportService,
		Notifications: notifier,
		Cron:          services.NewCronService(cfg.Cron, registry, reportService, authService, notifier),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, c *Container, cfg *config.Config) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(c.Auth, cfg)
	userHandler := handlers.NewUserHandler(c.Users, c.Auth)
	claimHandler := handlers.NewClaimHandler(c.Claims)
	fleetHandler := handlers.NewFleetHandler(c.Fleets)
	reportHandler := handlers.NewReportHandler(c.Reports)
	shipClassHandler := handlers.NewShipClassHandler(c.ShipClassRepo, c.Registry)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, cfg)

	auth := middleware.AuthMiddleware(cfg)

	userRoutes := apiV1.Group("/users", auth, middleware.AdminOnly(), middleware.NoCacheHeaders())
	setupUserRoutes(userRoutes, userHandler)

	claimRoutes := apiV1.Group("/claims", auth, middleware.NoCacheHeaders())
	setupClaimRoutes(claimRoutes, claimHandler)

	fleetRoutes := apiV1.Group("/fleets", auth)
	setupFleetRoutes(fleetRoutes, fleetHandler)

	reportRoutes := apiV1.Group("/reports", auth, middleware.FCOrAdmin(), middleware.NoCacheHeaders())
	setupReportRoutes(reportRoutes, reportHandler)

	apiV1.Get("/ship-classes", auth, middleware.PrivateCacheHeaders(5*time.Minute), shipClassHandler.List)
	adminShipClasses := apiV1.Group("/admin/ship-classes", auth, middleware.AdminOnly())
	adminShipClasses.Put("/", shipClassHandler.Upsert)
	adminShipClasses.Post("/refresh", shipClassHandler.Refresh)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Post("/", handler.CreateUser)
	router.Put("/:id/role", handler.SetUserRole)
}

// setupClaimRoutes configures claim routes. Members submit and read their own claims.
func setupClaimRoutes(router fiber.Router, handler *handlers.ClaimHandler) {
	router.Post("/estimate", handler.Estimate)
	router.Post("/", handler.Submit)
	router.Get("/my", handler.ListMine)
	router.Get("/:id", handler.Get)
	router.Get("/:id/history", handler.History)
	router.Post("/:id/notes", handler.AddNote)

	reviewer := router.Group("", middleware.FCOrAdmin())
	reviewer.Get("/", handler.List)
	reviewer.Put("/:id/approve", handler.Approve)
	reviewer.Put("/:id/deny", handler.Deny)

	router.Put("/:id/pay", middleware.AdminOnly(), handler.Pay)
}

// setupFleetRoutes configures fleet routes
func setupFleetRoutes(router fiber.Router, handler *handlers.FleetHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)

	fc := router.Group("", middleware.FCOrAdmin())
	fc.Post("/", handler.Create)
	fc.Put("/:id/status", handler.UpdateStatus)
	fc.Get("/:id/claims", handler.Claims)
}

// setupReportRoutes configures report routes (FC/Admin)
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Get("/dashboard", handler.Dashboard)
	router.Get("/reviewers", handler.Reviewers)
	router.Get("/payment-queue", handler.PaymentQueue)
	router.Get("/payment-queue/export", handler.ExportPaymentQueue)
	router.Post("/payment-queue/:payee/pay", middleware.AdminOnly(), middleware.StrictRateLimiter(), handler.PayPayee)
}
