package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EobardThawne2/parking-beta/internal/di"
	"github.com/EobardThawne2/parking-beta/internal/handler"
	"github.com/EobardThawne2/parking-beta/internal/repository"
	"github.com/EobardThawne2/parking-beta/internal/service"
	"github.com/EobardThawne2/parking-beta/pkg/config"
	"github.com/EobardThawne2/parking-beta/pkg/database"
	"github.com/EobardThawne2/parking-beta/pkg/logger"
	"github.com/EobardThawne2/parking-beta/pkg/middleware"
	"github.com/EobardThawne2/parking-beta/pkg/redis"
	"github.com/EobardThawne2/parking-beta/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       logLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLog := logger.Get()

	appLog.Info("starting parking service",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	ctx := context.Background()

	// Initialize telemetry
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Fatal("failed to init telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			appLog.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	// Initialize storage
	var (
		db            *database.PostgresDB
		inventoryRepo repository.InventoryRepository
		bookingRepo   repository.BookingRepository
		userRepo      repository.UserRepository
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := cfg.ValidateDatabase(); err != nil {
			appLog.Fatal("invalid database config", zap.Error(err))
		}

		db, err = database.NewPostgres(ctx, &database.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxConns:        int32(cfg.Database.MaxOpenConns),
			MinConns:        int32(cfg.Database.MaxIdleConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnectTimeout:  10 * time.Second,
			MaxRetries:      5,
			RetryInterval:   3 * time.Second,
			EnableTracing:   cfg.OTel.Enabled,
			ServiceName:     cfg.App.Name,
		})
		if err != nil {
			appLog.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()

		store := repository.NewPostgresStore(db.Pool())
		if err := store.SeedSlots(ctx); err != nil {
			appLog.Fatal("failed to seed slot inventory", zap.Error(err))
		}

		inventoryRepo = store
		bookingRepo = store
		userRepo = repository.NewPostgresUserRepository(db.Pool())
		appLog.Info("using postgres storage", zap.String("host", cfg.Database.Host))

	default:
		store := repository.NewMemoryStore()
		inventoryRepo = store
		bookingRepo = store
		userRepo = repository.NewMemoryUserRepository()
		appLog.Info("using in-memory storage")
	}

	// Initialize Redis (optional, used for request idempotency)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		})
		if err != nil {
			appLog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLog.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize event publisher (optional, no-op when disabled)
	var publisher service.EventPublisher = service.NewNoOpEventPublisher()
	if cfg.Kafka.Enabled {
		publisher, err = service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("kafka unavailable, events disabled", zap.Error(err))
			publisher = service.NewNoOpEventPublisher()
		} else {
			appLog.Info("kafka event publisher ready", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	}
	defer publisher.Close()

	// Build dependency container
	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		InventoryRepo:  inventoryRepo,
		BookingRepo:    bookingRepo,
		UserRepo:       userRepo,
		EventPublisher: publisher,
		AuthConfig: &service.AuthConfig{
			JWTSecret:      cfg.JWT.Secret,
			AccessTokenTTL: cfg.JWT.AccessTokenTTL,
			Issuer:         cfg.JWT.Issuer,
		},
		ServiceName: cfg.App.Name,
	})

	// Seed the default admin account into an empty user store
	if err := container.AuthService.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FullName); err != nil {
		appLog.Fatal("failed to seed admin account", zap.Error(err))
	}

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, container, redisClient)

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("forced shutdown", zap.Error(err))
	}

	appLog.Info("server stopped")
}

func setupRouter(cfg *config.Config, container *di.Container, redisClient *redis.Client) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.IdempotencyKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, telemetry.TraceIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health probes
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	api := router.Group("/api")

	// Public endpoints
	api.GET("/parking-status", container.ParkingHandler.ParkingStatus)
	api.GET("/time-info", container.ParkingHandler.TimeInfo)
	api.POST("/register", container.AuthHandler.Register)
	api.POST("/login", container.AuthHandler.Login)
	api.POST("/admin-login", container.AuthHandler.AdminLogin)

	// Authenticated endpoints
	authed := api.Group("")
	authed.Use(handler.AuthMiddleware(container.AuthService))
	if redisClient != nil {
		idemCfg := middleware.DefaultIdempotencyConfig(redisClient)
		authed.Use(middleware.IdempotencyMiddleware(idemCfg))
	}
	authed.GET("/check-auth", container.AuthHandler.CheckAuth)
	authed.POST("/book-slots", container.ParkingHandler.BookSlots)
	authed.GET("/my-bookings", container.ParkingHandler.MyBookings)
	authed.GET("/booking/:reference", container.ParkingHandler.GetBooking)
	authed.POST("/calculate-fees", container.ParkingHandler.CalculateFees)

	// Admin endpoints
	admin := authed.Group("")
	admin.Use(handler.AdminOnlyMiddleware())
	admin.POST("/reset-bookings", container.AdminHandler.ResetBookings)
	admin.GET("/booking-stats", container.AdminHandler.BookingStats)

	return router
}
