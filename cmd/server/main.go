package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodbridge-api/internal/adapters/http/middleware"
	"foodbridge-api/internal/adapters/http/routes"
	"foodbridge-api/internal/adapters/persistence/models"
	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/adapters/realtime"
	"foodbridge-api/internal/adapters/storage"
	"foodbridge-api/internal/config"
	"foodbridge-api/internal/core/services"
	"foodbridge-api/internal/pkg/jwt"
	"foodbridge-api/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "foodbridge-api/docs" // Swagger docs
)

// @title FoodBridge API
// @version 1.0
// @description Surplus food redistribution between donors, NGOs and volunteers
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@foodbridge.org

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Must("dev").Fatal("❌ Failed to load configuration", zap.Error(err))
	}

	log := logger.Must(cfg.AppMode)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("❌ Server stopped with error", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Info("✅ Server stopped gracefully")
}

// run wires the application and blocks until shutdown
func run(cfg *config.Config, log *zap.Logger) error {
	// Connect to database
	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("✅ Database migration completed")

	store := repositories.NewStore(db)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.AccessTTL(), cfg.RefreshTTL())

	hub := realtime.NewHub(cfg.GetAllowedOrigins(), log)
	events := realtime.NewSSEHub(log)
	notifier := services.NewNotificationService(services.FanOut{hub, events}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var images services.ImageStore
	if cfg.Storage.Bucket != "" {
		gcs, err := storage.NewGCSImageStore(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile, log)
		if err != nil {
			return fmt.Errorf("image storage: %w", err)
		}
		defer gcs.Close()
		images = gcs
	} else {
		log.Warn("⚠️ GCS bucket not configured, image uploads disabled")
	}

	claims := services.NewClaimCoordinator(store, notifier, log, cfg.Donation.RequireNGOVerification)

	cronService, err := services.NewCronService(store, cfg.Donation.IntakeResetSchedule, log)
	if err != nil {
		return fmt.Errorf("schedule jobs: %w", err)
	}
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FoodBridge API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    int(cfg.MaxUploadBytes()) * services.MaxImagesPerDonation,
	})

	middleware.Setup(app, cfg)

	routes.Setup(app, &routes.Dependencies{
		Config: cfg,
		Tokens: tokens,
		AuthService: services.NewAuthService(store, tokens, services.AuthConfig{
			DefaultIntakeCapacity: cfg.Donation.DefaultIntakeCapacity,
		}, log),
		UserService:      services.NewUserService(store, log),
		DonationService:  services.NewDonationService(store, claims, notifier, images, log),
		DashboardService: services.NewDashboardService(store),
		Events:           events,
	})

	realtimeServer := &http.Server{
		Addr:              ":" + cfg.RealtimePort,
		Handler:           realtime.NewRouter(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("🚀 Server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
		return app.Listen(":" + cfg.Port)
	})

	g.Go(func() error {
		log.Info("📡 Realtime server starting", zap.String("port", cfg.RealtimePort))
		if err := realtimeServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("🛑 Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Close()
		return errors.Join(
			app.ShutdownWithContext(shutdownCtx),
			realtimeServer.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}
