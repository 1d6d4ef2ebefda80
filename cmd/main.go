package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GoodNightBuddy/realtor-app/internal/caching"
	"github.com/GoodNightBuddy/realtor-app/internal/common"
	"github.com/GoodNightBuddy/realtor-app/internal/config"
	"github.com/GoodNightBuddy/realtor-app/internal/handlers"
	"github.com/GoodNightBuddy/realtor-app/internal/jobs/background"
	"github.com/GoodNightBuddy/realtor-app/internal/middleware"
	"github.com/GoodNightBuddy/realtor-app/internal/repositories"
	"github.com/GoodNightBuddy/realtor-app/internal/services"
	"github.com/GoodNightBuddy/realtor-app/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/labstack/gommon/random"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	storage, err := services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket, cfg.MinioPublicURL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO storage: %v", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Printf("WARN: MinIO bucket %s unavailable, image uploads will fail: %v", cfg.MinioBucket, err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	listingRepo := repositories.NewListingRepo(pool)
	imageRepo := repositories.NewImageRepo(pool)
	messageRepo := repositories.NewMessageRepo(pool)

	// Create services
	tokenSvc := services.NewTokenService(jwtSecret, cfg.TokenTTL)
	authSvc := services.NewAuthService(userRepo, tokenSvc, cacheSvc, cfg.ProductKeySecret)
	listingSvc := services.NewListingService(listingRepo, imageRepo, cacheSvc, storage)
	notifySvc := services.NewNotificationService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	inquirySvc := services.NewInquiryService(listingSvc, messageRepo, notifySvc)

	scheduler, err := background.NewJobScheduler(listingRepo, cfg.OrphanSweepInterval)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler
	e.Logger.SetLevel(parseLogLevel(cfg.LogLevel))

	// Global middleware
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.AuthResolver(tokenSvc))
	e.Use(middleware.AuditRequest())

	handlers.RegisterRoutes(e,
		handlers.NewAuthHandlers(authSvc),
		handlers.NewListingHandlers(listingSvc, inquirySvc),
		handlers.NewHealthHandlers(pool, cacheSvc, storage),
		middleware.NewRoleGuard(userRepo),
	)

	go func() {
		log.Printf("Realtor server v%s starting on port %d", version, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Printf("Job scheduler shutdown: %v", err)
	}
}

func parseLogLevel(level string) gommonlog.Lvl {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return gommonlog.DEBUG
	case "WARN":
		return gommonlog.WARN
	case "ERROR":
		return gommonlog.ERROR
	case "OFF":
		return gommonlog.OFF
	}
	return gommonlog.INFO
}
