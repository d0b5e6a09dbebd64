package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/metro-cabs/service-booking/internal/application"
	"github.com/metro-cabs/service-booking/internal/auth"
	"github.com/metro-cabs/service-booking/internal/cache"
	"github.com/metro-cabs/service-booking/internal/config"
	"github.com/metro-cabs/service-booking/internal/database"
	"github.com/metro-cabs/service-booking/internal/events"
	"github.com/metro-cabs/service-booking/internal/handler"
	"github.com/metro-cabs/service-booking/internal/logger"
	mapsclient "github.com/metro-cabs/service-booking/internal/maps"
	"github.com/metro-cabs/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("service_area", cfg.Pricing.ServiceArea),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := db.AutoMigrate(
		&repository.CityModel{},
		&repository.RouteModel{},
		&repository.LocalFareModel{},
		&repository.BookingModel{},
	); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}

	// Connect to Redis (durable fallback for rates + admin session)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	rateCache := cache.New(redisClient)

	// Initialize Kafka producer
	producer := events.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	// Initialize repositories
	cityRepo := repository.NewGormCityRepository(db)
	routeRepo := repository.NewGormRouteRepository(db)
	localFareRepo := repository.NewGormLocalFareRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	// Initialize pricing service and populate the aggregate. A partial
	// load is survivable: the failed slice keeps its default and the
	// next admin action or restart retries.
	pricingService := application.NewPricingService(
		cfg.Pricing.ServiceArea, cityRepo, routeRepo, localFareRepo, rateCache, log)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := pricingService.Load(loadCtx); err != nil {
		log.Warn("initial pricing load incomplete", zap.Error(err))
	}
	loadCancel()

	// Initialize distance provider. Without an API key every estimate
	// takes the geometric fallback.
	var distance application.DistanceEstimator
	if cfg.Maps.APIKey != "" {
		ds, err := mapsclient.NewDistanceService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal("failed to create distance service", zap.Error(err))
		}
		distance = ds
	} else {
		log.Warn("no maps API key configured, estimates will use haversine only")
	}

	// Initialize booking service
	bookingService := application.NewBookingService(
		bookingRepo, pricingService, distance, producer, cfg.Pricing.WhatsAppNumber, log)

	// Initialize admin auth
	jwtManager := auth.NewJWTManager(cfg.Admin.JWTSecret, 24*time.Hour)
	authService := auth.NewService(
		cfg.Admin.Username, cfg.Admin.PasswordHash, jwtManager, rateCache, log)

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	bookingHandler := handler.NewBookingHandler(bookingService)
	bookingHandler.RegisterRoutes(&router.RouterGroup)

	adminHandler := handler.NewAdminHandler(authService, pricingService, bookingService)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("failed to close redis client", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
