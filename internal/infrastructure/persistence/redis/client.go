package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// NewClient 创建Redis客户端
// 设计说明：
// 1. 单用户命令行程序，连接池很小（默认1）
// 2. 配置超时参数（DialTimeout、ReadTimeout、WriteTimeout）
// 3. 测试连接可用性，cleanup在进程退出时关闭连接
func NewClient(cfg *config.Config, log *slog.Logger) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error("关闭Redis连接失败", slog.Any("error", err))
		}
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		cleanup()
		return nil, nil, apperrors.WrapCode(err, apperrors.ErrCodeStoreUnavailable, "Redis连接失败")
	}

	log.Info("Redis连接成功", slog.String("addr", cfg.Redis.Addr()))
	return client, cleanup, nil
}
