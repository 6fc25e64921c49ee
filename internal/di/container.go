package di

import (
	"github.com/EobardThawne2/parking-beta/internal/handler"
	"github.com/EobardThawne2/parking-beta/internal/repository"
	"github.com/EobardThawne2/parking-beta/internal/service"
	"github.com/EobardThawne2/parking-beta/pkg/database"
	"github.com/EobardThawne2/parking-beta/pkg/redis"
)

// Container holds all dependencies for the parking service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	InventoryRepo repository.InventoryRepository
	BookingRepo   repository.BookingRepository
	UserRepo      repository.UserRepository

	// Publishers
	EventPublisher service.EventPublisher

	// Services
	AuthService    *service.AuthService
	BookingService *service.BookingService

	// Handlers
	AuthHandler    *handler.AuthHandler
	ParkingHandler *handler.ParkingHandler
	AdminHandler   *handler.AdminHandler
	HealthHandler  *handler.HealthHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB             *database.PostgresDB
	Redis          *redis.Client
	InventoryRepo  repository.InventoryRepository
	BookingRepo    repository.BookingRepository
	UserRepo       repository.UserRepository
	EventPublisher service.EventPublisher
	AuthConfig     *service.AuthConfig
	ServiceName    string
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		InventoryRepo:  cfg.InventoryRepo,
		BookingRepo:    cfg.BookingRepo,
		UserRepo:       cfg.UserRepo,
		EventPublisher: cfg.EventPublisher,
	}

	// Initialize services
	c.AuthService = service.NewAuthService(c.UserRepo, cfg.AuthConfig)
	c.BookingService = service.NewBookingService(
		c.InventoryRepo,
		c.BookingRepo,
		c.UserRepo,
		c.EventPublisher,
	)

	// Initialize handlers
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.ParkingHandler = handler.NewParkingHandler(c.BookingService)
	c.AdminHandler = handler.NewAdminHandler(c.BookingService)

	c.HealthHandler = handler.NewHealthHandler(cfg.ServiceName)
	if c.DB != nil {
		c.HealthHandler.AddCheck("postgres", c.DB.HealthCheck)
	}
	if c.Redis != nil {
		c.HealthHandler.AddCheck("redis", c.Redis.HealthCheck)
	}

	return c
}
