package di

import (
	"fmt"

	"user-service/cmd/api/infrastructure"
	"user-service/internal/adapter/db/sqlite"
	ginhandler "user-service/internal/adapter/gin/handler"
	"user-service/internal/adapter/gin/middleware"
	ginrouter "user-service/internal/adapter/gin/router"
	"user-service/internal/adapter/repository/memory"
	"user-service/internal/config"
	"user-service/internal/usecase/user"
	redisclient "user-service/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	UserUC      user.Usecase
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.UserHandler
	Router      *gin.Engine
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: l,
	}

	repo, err := c.newRepository()
	if err != nil {
		c.closeQuietly()
		return nil, err
	}

	// Redis is only needed when requests are throttled
	var limiterClient *goredis.Client
	if cfg.RateLimit.Enabled {
		rdb, err := infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			c.closeQuietly()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
		limiterClient = rdb.Client
	}

	c.UserUC = user.New(repo, l)

	c.RateLimiter = middleware.NewRateLimiter(
		limiterClient,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)

	c.Router = ginrouter.SetupRouter(
		ginrouter.Config{
			ServiceName:    cfg.Logger.ServiceName,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		c.GinHandler,
		c.RateLimiter,
		l,
	)

	return c, nil
}

// newRepository builds the user store selected by STORAGE_DRIVER
func (c *Container) newRepository() (user.Repository, error) {
	switch c.Config.Storage.Driver {
	case config.StorageSQLite:
		db, err := infrastructure.NewDatabase(c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		return sqlite.NewUserRepoSQLite(db, c.Logger), nil
	default:
		c.Logger.Info("using in-memory user store")
		return memory.NewUserRepoMemory(c.Logger), nil
	}
}

func (c *Container) closeQuietly() {
	if err := c.Close(); err != nil {
		c.Logger.Warn("failed to release resources after startup error", zap.Error(err))
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
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
