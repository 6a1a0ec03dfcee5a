package cmd

import (
	"fmt"

	"npi-linker/core/config"
	"npi-linker/core/database"
	"npi-linker/core/logger"
	"npi-linker/core/metrics"
	"npi-linker/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// services bundles what every command needs. store and db stay nil when the
// corresponding section of the configuration is disabled.
type services struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   storage.Client
	db      *gorm.DB
	metrics *metrics.Metrics
}

// bootstrap loads configuration and opens the optional backends. A database
// that cannot be reached is logged and left nil.
func bootstrap() (*services, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &services{cfg: cfg, logger: logg, metrics: metrics.New()}

	if cfg.Storage.Enabled {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.store = store
	}

	if cfg.Database.Enabled {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			rt.db = conn
			logg.Info("Connected to result database",
				zap.String("driver", cfg.Database.Driver),
				zap.String("name", cfg.Database.Name))
		}
	}

	return rt, nil
}

func (rt *services) close() {
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = rt.logger.Sync()
}
