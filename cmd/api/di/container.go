package di

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"rest-user-service/cmd/api/infrastructure"
	ginhandler "rest-user-service/internal/adapter/gin/handler"
	"rest-user-service/internal/adapter/gin/middleware"
	ginrouter "rest-user-service/internal/adapter/gin/router"
	"rest-user-service/internal/adapter/repository/memory"
	"rest-user-service/internal/config"
	productdomain "rest-user-service/internal/domain/product"
	userdomain "rest-user-service/internal/domain/user"
	"rest-user-service/internal/usecase/product"
	"rest-user-service/internal/usecase/user"
	redisclient "rest-user-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	RedisClient    *redisclient.Client
	Registry       *prometheus.Registry
	UserUC         *user.Service
	ProductUC      *product.Catalog
	RateLimiter    *middleware.RateLimiter
	UserHandler    *ginhandler.UserHandler
	ProductHandler *ginhandler.ProductHandler
}

// NewContainer creates and initializes all application dependencies.
// Redis is only dialed when rate limiting is enabled.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	var seed []userdomain.User
	if cfg.App.SeedUsers {
		seed = userdomain.SeedUsers()
	}
	repo := memory.NewUserRepository(seed, l)
	c.UserUC = user.New(repo, l)
	c.ProductUC = product.New(productdomain.Catalog())

	if cfg.HTTP.MetricsEnabled {
		c.Registry = prometheus.NewRegistry()
		c.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.RateLimit.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
		c.RateLimiter = middleware.NewRateLimiter(rdb.Client, middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           true,
		}, l)
	}

	c.UserHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.ProductHandler = ginhandler.NewProductHandler(c.ProductUC, l)

	l.Info("container initialized",
		zap.Int("seed_users", len(seed)),
		zap.Bool("metrics", cfg.HTTP.MetricsEnabled),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	return c, nil
}

// RouterOptions assembles the router dependencies held by the container.
func (c *Container) RouterOptions() ginrouter.Options {
	return ginrouter.Options{
		ServiceName:    c.Config.Logger.ServiceName,
		AllowedOrigins: c.Config.HTTP.AllowedOrigins,
		SwaggerEnabled: c.Config.HTTP.SwaggerEnabled,
		UserHandler:    c.UserHandler,
		ProductHandler: c.ProductHandler,
		UserResolver:   c.UserUC,
		RateLimiter:    c.RateLimiter,
		Registry:       c.Registry,
		Logger:         c.Logger,
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}
