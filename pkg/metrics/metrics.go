// Package metrics 提供监控指标功能，Prometheus 标准.
//
// Example:
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.RequestCounter.WithLabelValues("GET", "/api/v1/documents").Inc()
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/docvault/pkg/configs"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// UploadsTotal 成功入库的文档上传数.
	UploadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_uploads_total",
			Help: "Total number of documents uploaded",
		},
	)

	// DownloadsTotal 下载计数接口命中数.
	DownloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_downloads_total",
			Help: "Total number of document downloads counted",
		},
	)

	// OrganizerRuns AI 整理任务执行次数，label 标记结果.
	OrganizerRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docvault_organizer_runs_total",
			Help: "Total number of AI organizer runs",
		},
		[]string{"result"},
	)

	// OrganizerCorrections AI 整理任务应用的修正数.
	OrganizerCorrections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_organizer_corrections_total",
			Help: "Total number of taxonomy corrections applied by the organizer",
		},
	)

	// OrganizerDuplicates AI 整理任务删除的重复文档数.
	OrganizerDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_organizer_duplicates_total",
			Help: "Total number of duplicate documents removed by the organizer",
		},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
)

// InitMetrics 初始化Metrics.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry.MustRegister(
		RequestCounter, RequestDuration,
		UploadsTotal, DownloadsTotal,
		OrganizerRuns, OrganizerCorrections, OrganizerDuplicates,
	)

	return nil
}

// StartMetricsServer 将 /metrics 挂到传入的 gin 引擎上.
func StartMetricsServer(config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return nil
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}
