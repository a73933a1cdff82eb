package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alliance-srp/internal/adapters/http/middleware"
	"alliance-srp/internal/adapters/http/routes"
	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/config"

	"github.com/gofiber/fiber/v2"

	_ "alliance-srp/docs" // Swagger docs
)

// @title Alliance SRP API
// @version 1.0
// @description Ship replacement program: claim submission, review and payout.

// @contact.name API Support

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	logger := config.GetLogger()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	logger.Info("✅ Database migration completed")

	if err := config.NewSeeder(db).Run(); err != nil {
		logger.Warnf("⚠️ Failed to seed data: %v", err)
	}

	// Redis is optional; without it the review lock is a no-op
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := config.ConnectRedis(ctx, cfg); err != nil {
		logger.Warnf("⚠️ Redis unavailable, review lock disabled: %v", err)
	}
	cancel()
	defer config.CloseRedis()

	container := routes.NewContainer(db, cfg)

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := container.Registry.Refresh(ctx); err != nil {
		logger.Warnf("⚠️ Failed to load ship class table: %v", err)
	}
	cancel()

	if err := container.Cron.Start(); err != nil {
		logger.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer container.Cron.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Alliance SRP API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		Immutable:    true,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, container, cfg)

	go gracefulShutdown(app)

	logger.Infof("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger := config.GetLogger()
	logger.Info("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		logger.Errorf("❌ Error during shutdown: %v", err)
	}
	logger.Info("✅ Server stopped gracefully")
}
