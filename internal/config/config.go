package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	AppPort string `env:"APP_PORT, default=8080"`
	GinMode string `env:"GIN_MODE, default=release"`

	DatabaseDSN string `env:"DATABASE_DSN, default=postgres://localhost:5432/authgate?sslmode=disable"`

	// SessionBackend selects where session rows live: "postgres" (default)
	// or "redis".
	SessionBackend string `env:"SESSION_BACKEND, default=postgres"`
	RedisAddr      string `env:"REDIS_ADDR, default=localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`

	// SessionTTL applies both when a session is created and when it is
	// refreshed on a valid request. SessionRefreshTTL overrides the refresh
	// window only; when unset it follows SessionTTL.
	SessionTTL        time.Duration `env:"SESSION_TTL, default=1h"`
	SessionRefreshTTL time.Duration `env:"SESSION_REFRESH_TTL"`

	// SweepInterval enables the expired-session reaper when > 0.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL"`

	Argon2Time        uint32 `env:"ARGON2_TIME, default=3"`
	Argon2MemoryKB    uint32 `env:"ARGON2_MEMORY_KB, default=65536"`
	Argon2Parallelism uint8  `env:"ARGON2_PARALLELISM, default=2"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}

	if cfg.SessionRefreshTTL <= 0 {
		cfg.SessionRefreshTTL = cfg.SessionTTL
	}

	return cfg
}
