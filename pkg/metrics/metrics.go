// Package metrics 提供基于Prometheus的存储指标收集
//
// 指标一览：
//
//	catalog_store_operations_total{operation,result}    存储操作次数（Counter）
//	catalog_store_operation_duration_seconds{operation}  存储操作耗时（Histogram）
//	catalog_books_loaded                                 最近一次加载的图书数（Gauge）
//	catalog_authors_loaded                               最近一次加载的作者数（Gauge）
//	catalog_authorships_skipped_total                    加载时丢弃的无效关系行（Counter）
//
// 使用示例：
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	start := time.Now()
//	err := repo.CreateBook(ctx, rec)
//	m.ObserveOperation("create_book", start, err)
//
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics 图书目录指标集合
// 设计说明：不使用promauto的全局Registry，便于测试时各自创建独立Registry
type Metrics struct {
	StoreOperations   *prometheus.CounterVec
	StoreDuration     *prometheus.HistogramVec
	BooksLoaded       prometheus.Gauge
	AuthorsLoaded     prometheus.Gauge
	AuthorshipSkipped prometheus.Counter
}

// New 创建指标并注册到reg
// reg为nil时只创建不注册（命令行关闭指标时使用）
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_store_operations_total",
				Help: "存储操作总数",
			},
			[]string{"operation", "result"}, // 标签：操作名、结果（success/failure）
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "catalog_store_operation_duration_seconds",
				Help: "存储操作耗时（秒）",
				// 单行读写通常在毫秒级，全表读取可能到秒级
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		),
		BooksLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_books_loaded",
				Help: "最近一次加载的图书数",
			},
		),
		AuthorsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_authors_loaded",
				Help: "最近一次加载的作者数",
			},
		),
		AuthorshipSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_authorships_skipped_total",
				Help: "加载时无法解析而丢弃的关系行总数",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.StoreOperations,
			m.StoreDuration,
			m.BooksLoaded,
			m.AuthorsLoaded,
			m.AuthorshipSkipped,
		)
	}
	return m
}

// ObserveOperation 记录一次存储操作的结果与耗时
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	IncCounterVec(m.StoreOperations, map[string]string{
		"operation": operation,
		"result":    result,
	})
	m.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordLoad 记录一次加载的规模
func (m *Metrics) RecordLoad(books, authors, skipped int) {
	SetGauge(m.BooksLoaded, float64(books))
	SetGauge(m.AuthorsLoaded, float64(authors))
	m.AuthorshipSkipped.Add(float64(skipped))
}

// Handler 暴露/metrics端点
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}
