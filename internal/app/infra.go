package app

import (
	"context"
	"database/sql"

	"authgate/internal/config"
	"authgate/internal/db"
	"authgate/internal/logger"
	"authgate/internal/redis"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB *db.DB

	// Redis is only opened when the redis session backend is selected.
	Redis *redis.Client
}

// setupInfra opens and verifies every durable store. Any failure here is
// fatal: the service never serves requests on a broken persistence layer.
func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: &db.DB{DB: sqlDB}}

	if cfg.SessionBackend == "redis" {
		redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}

		logger.Info("redis ready", nil)
		infra.Redis = redisClient
	}

	return infra, nil
}
