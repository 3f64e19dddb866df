package di

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"commerce-service/cmd/api/infrastructure"
	"commerce-service/internal/adapter/cache"
	"commerce-service/internal/adapter/db/postgres"
	"commerce-service/internal/adapter/gateway"
	ginhandler "commerce-service/internal/adapter/gin/handler"
	ginmiddleware "commerce-service/internal/adapter/gin/middleware"
	"commerce-service/internal/adapter/gin/router"
	grpcmiddleware "commerce-service/internal/adapter/grpc/middleware"
	"commerce-service/internal/adapter/messaging/rabbitmq"
	"commerce-service/internal/adapter/notify"
	"commerce-service/internal/adapter/repository/cached"
	"commerce-service/internal/adapter/session"
	"commerce-service/internal/config"
	"commerce-service/internal/usecase/customer"
	"commerce-service/internal/usecase/inventory"
	"commerce-service/internal/usecase/notification"
	"commerce-service/internal/usecase/order"
	"commerce-service/internal/usecase/product"
	"commerce-service/pkg/circuitbreaker"
	redisclient "commerce-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Broker      *rabbitmq.Broker
	Consumer    *rabbitmq.Consumer
	Breakers    *circuitbreaker.Manager

	CustomerUC     customer.Usecase
	ProductUC      product.Usecase
	InventoryUC    inventory.Usecase
	OrderUC        order.Usecase
	NotificationUC *notification.Service

	GRPCRateLimiter *grpcmiddleware.RateLimiter
	Router          router.Dependencies
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (c *Container, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c = &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if c.DB, err = infrastructure.NewDatabase(cfg, l); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if c.RedisClient, err = infrastructure.NewRedisClient(cfg, l); err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	if c.Broker, err = infrastructure.NewBroker(cfg, l); err != nil {
		return nil, fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}

	pubCh, err := c.Broker.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(pubCh, l)

	if cfg.RabbitMQ.ConsumerEnabled {
		consumeCh, err := c.Broker.Channel()
		if err != nil {
			return nil, fmt.Errorf("failed to open consume channel: %w", err)
		}
		c.Consumer = rabbitmq.NewConsumer(consumeCh, cfg.RabbitMQ.Prefetch, l)
	}

	c.Breakers = circuitbreaker.NewManager(circuitbreaker.Config{
		FailureRatio: cfg.CircuitBreaker.FailureRatio,
		MinRequests:  cfg.CircuitBreaker.MinRequests,
		OpenTimeout:  time.Duration(cfg.CircuitBreaker.OpenTimeoutSeconds) * time.Second,
		HalfOpenMax:  cfg.CircuitBreaker.HalfOpenMax,
		Interval:     time.Duration(cfg.CircuitBreaker.IntervalSeconds) * time.Second,
	}, l)

	// Repositories
	productCache := cache.NewRedisProductCache(
		c.RedisClient.Client,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		l,
	)
	productDB := postgres.NewProductRepoPG(c.DB, l)
	productRepo := cached.NewProductRepository(productDB, productCache, l)
	customerRepo := postgres.NewCustomerRepoPG(c.DB, l)
	orderRepo := postgres.NewOrderRepoPG(c.DB, l)

	// Use cases
	inventoryUC := inventory.New(productDB, publisher, c.Breakers, productCache, inventory.Thresholds{
		Low:      cfg.Inventory.LowStockThreshold,
		Critical: cfg.Inventory.CriticalThreshold,
	}, l)
	c.InventoryUC = inventoryUC
	c.ProductUC = product.New(productRepo, l)
	c.CustomerUC = customer.New(customerRepo, l)
	c.OrderUC = order.New(orderRepo, customerRepo, productRepo, inventoryUC, publisher, c.Breakers, l)
	c.NotificationUC = notification.New(
		publisher,
		notify.New(cfg.Notify.WebhookURL, time.Duration(cfg.Notify.TimeoutSeconds)*time.Second, l),
		cfg.Inventory.CriticalThreshold,
		l,
	)

	// Transport
	c.GRPCRateLimiter = grpcmiddleware.NewRateLimiter(c.RedisClient.Client, cfg.RateLimit, l)

	gw, err := gateway.New(cfg.Gateway, c.Breakers, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gateway: %w", err)
	}

	sessions := session.NewStore(c.RedisClient.Client, time.Duration(cfg.Redis.SessionTTLSeconds)*time.Second, l)

	checks := map[string]ginhandler.HealthCheck{
		"db":     infrastructure.PingDatabase(c.DB),
		"redis":  c.RedisClient.Ping,
		"broker": infrastructure.BrokerHealth(c.Broker),
	}
	info := ginhandler.AppInfo{
		Name:        cfg.Logger.ServiceName,
		Version:     cfg.Logger.ServiceVersion,
		Environment: environment(),
	}

	c.Router = router.Dependencies{
		Customers:   ginhandler.NewCustomerHandler(c.CustomerUC, l),
		Products:    ginhandler.NewProductHandler(c.ProductUC, c.InventoryUC, l),
		Orders:      ginhandler.NewOrderHandler(c.OrderUC, l),
		Sessions:    ginhandler.NewSessionHandler(sessions, l),
		Actuator:    ginhandler.NewActuatorHandler(checks, c.Breakers, info, l),
		SessionLoad: sessions,
		RateLimiter: ginmiddleware.NewRateLimiter(c.RedisClient.Client, cfg.RateLimit, l),
		Gateway:     gw,
	}

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.Broker != nil {
		if err := c.Broker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close RabbitMQ: %w", err))
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}

func environment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}
