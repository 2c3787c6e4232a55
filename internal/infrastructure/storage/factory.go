package storage

import (
	"fmt"

	"github.com/superdupermart/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Open creates the Store selected by configuration
func Open(cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case "file":
		logger.Debug("opening file storage", zap.String("path", cfg.Storage.Path))
		return NewFileStore(cfg.Storage.Path)
	case "redis":
		logger.Debug("opening redis storage", zap.String("addr", cfg.Redis.Addr()))
		return NewRedisStore(RedisOptions{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
