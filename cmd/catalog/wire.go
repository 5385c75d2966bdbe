//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改后运行 `wire gen ./cmd/catalog` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	appcatalog "github.com/xiebiao/bookcatalog/internal/application/catalog"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/logging"
	"github.com/xiebiao/bookcatalog/internal/interface/cli"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// infrastructureSet 基础设施层依赖
// 包含：配置加载、日志、指标、存储连接
var infrastructureSet = wire.NewSet(
	config.Load,
	logging.New,
	provideRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	metrics.New,
	provideRepository,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appcatalog.NewCatalog,
)

// interfaceSet 命令行接口
var interfaceSet = wire.NewSet(
	cli.NewApp,
)

// InitializeApp 初始化整个应用
// cleanup按创建的逆序释放存储连接和日志文件
func InitializeApp() (*cli.App, func(), error) {
	wire.Build(
		infrastructureSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
