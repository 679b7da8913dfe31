package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"parkspot/internal/app"
	"parkspot/internal/config"
	"parkspot/internal/handler"
	internalRedis "parkspot/internal/redis"
	"parkspot/internal/repository/postgres"
	"parkspot/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, sweeperService := wireServer(db, redisClient, nrApp, cfg)

	// Schedule the expiration sweep.
	scheduler := cron.New()
	if cfg.Sweeper.Spec != "" {
		_, err := scheduler.AddFunc(cfg.Sweeper.Spec, func() {
			sweepCtx, sweepCancel := context.WithTimeout(context.Background(), time.Minute)
			defer sweepCancel()

			result, err := sweeperService.Sweep(sweepCtx)
			if err != nil {
				log.Printf("[SWEEP] failed: %v", err)
				return
			}
			if result.Expired > 0 {
				log.Printf("[SWEEP] expired=%d completed=%d rewards=%d",
					result.Expired, result.Completed, result.RewardsApplied)
			}
		})
		if err != nil {
			log.Fatalf("failed to schedule sweeper: %v", err)
		}
		scheduler.Start()
		log.Printf("Expiration sweeper scheduled: %s", cfg.Sweeper.Spec)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Let an in-flight sweep finish before closing the database.
	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// sweeper for scheduling.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.SweeperService) {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	spaceRepo := postgres.NewSpaceRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	referralRepo := postgres.NewReferralRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize services.
	ledgerService := service.NewLedgerService(spaceRepo, locationStore, cacheStore)
	spaceService := service.NewSpaceService(spaceRepo, ledgerService, locationStore, cacheStore)
	referralService := service.NewReferralService(db, referralRepo, userRepo, bookingRepo)
	bookingService := service.NewBookingService(db, bookingRepo, spaceRepo, userRepo, referralService, ledgerService, lockStore)
	gateway := service.NewSimulatedGateway(cfg.Gateway.Latency)
	paymentService := service.NewPaymentService(db, paymentRepo, bookingRepo, gateway, ledgerService)
	notificationService := service.NewNotificationService(notificationRepo, spaceService)
	sweeperService := service.NewSweeperService(bookingRepo, referralService, ledgerService)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userRepo)
	spaceHandler := handler.NewSpaceHandler(spaceService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	referralHandler := handler.NewReferralHandler(referralService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	adminHandler := handler.NewAdminHandler(sweeperService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:         userHandler,
		SpaceHandler:        spaceHandler,
		BookingHandler:      bookingHandler,
		PaymentHandler:      paymentHandler,
		ReferralHandler:     referralHandler,
		NotificationHandler: notificationHandler,
		AdminHandler:        adminHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, sweeperService
}
