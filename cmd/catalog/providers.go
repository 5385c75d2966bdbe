package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/instrumented"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// provideRegistry 进程内独立的指标Registry,不使用prometheus全局默认Registry
func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// provideRepository 按store.backend选择存储实现,统一包一层指标装饰器
// Wire不支持按配置分支,分支写在Provider里
func provideRepository(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (catalog.Repository, func(), error) {
	var (
		repo    catalog.Repository
		cleanup func()
	)

	switch cfg.Store.Backend {
	case config.BackendSQL:
		db, dbCleanup, err := gormstore.NewDB(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		repo, cleanup = gormstore.NewCatalogRepository(db), dbCleanup
	case config.BackendRedis:
		client, redisCleanup, err := redis.NewClient(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		repo, cleanup = redis.NewCatalogStore(client, cfg.Redis.KeyPrefix), redisCleanup
	default:
		return nil, nil, fmt.Errorf("不支持的存储后端: %q", cfg.Store.Backend)
	}

	log.Debug("存储后端已就绪", slog.String("backend", cfg.Store.Backend))
	return instrumented.NewRepository(repo, m), cleanup, nil
}
