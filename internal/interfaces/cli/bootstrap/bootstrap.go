// Package bootstrap loads configuration and opens the shared connections
// every command needs.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/buildhomemart/homemart/internal/infrastructure/cache"
	"github.com/buildhomemart/homemart/internal/infrastructure/config"
	"github.com/buildhomemart/homemart/internal/infrastructure/database"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// Env is the process environment shared by the commands.
type Env struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
	Redis  *redis.Client
}

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flag string) string {
	if v := os.Getenv("ENV"); v != "" {
		return v
	}
	return flag
}

// GinMode maps an environment name to a gin mode.
func GinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return "release"
	case constants.EnvTest, "testing":
		return "test"
	default:
		return "debug"
	}
}

// Load reads configuration and initialises logging and the business timezone.
func Load(environment string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(environment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = GinMode(environment)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}
	return cfg, logger.NewLogger(), nil
}

// Open loads configuration and connects to MySQL, and to Redis when withRedis
// is set and Redis is configured. Close releases what Open acquired.
func Open(ctx context.Context, environment string, withRedis bool) (*Env, error) {
	cfg, log, err := Load(environment)
	if err != nil {
		return nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	env := &Env{Config: cfg, Log: log, DB: database.Get()}
	if withRedis {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		env.Redis = client
	}
	return env, nil
}

func (e *Env) Close() {
	if e.Redis != nil {
		if err := e.Redis.Close(); err != nil {
			e.Log.Warnw("failed to close redis client", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		e.Log.Warnw("failed to close database", "error", err)
	}
}
