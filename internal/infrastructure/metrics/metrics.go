package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipeai"

// Collector 收集 HTTP 與領域指標
type Collector struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	classifications *prometheus.CounterVec
	receipts        *prometheus.CounterVec
	ocrDuration     prometheus.Histogram
	extracted       prometheus.Histogram
}

// NewCollector 建立獨立 registry 的指標收集器
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingredient_classifications_total",
				Help:      "Ingredients classified by category",
			},
			[]string{"category"},
		),
		receipts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "receipts_processed_total",
				Help:      "Receipts processed by final status",
			},
			[]string{"status"},
		),
		ocrDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ocr_duration_seconds",
				Help:      "Time spent recognizing receipt text",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
		extracted: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "receipt_extracted_ingredients",
				Help:      "Ingredients extracted per processed receipt",
				Buckets:   prometheus.LinearBuckets(0, 5, 10),
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests,
		c.requestDuration,
		c.classifications,
		c.receipts,
		c.ocrDuration,
		c.extracted,
	)
	return c
}

// Registry 指標 registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler /metrics 端點
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware 記錄每個請求的次數與延遲，未匹配的路由以 "unmatched" 標示
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.requests.WithLabelValues(route, method, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// ObserveClassification 記錄一次食材分類
func (c *Collector) ObserveClassification(category string) {
	c.classifications.WithLabelValues(category).Inc()
}

// ObserveReceipt 記錄收據處理結果
func (c *Collector) ObserveReceipt(status string, ocrDuration time.Duration, extracted int) {
	c.receipts.WithLabelValues(status).Inc()
	if ocrDuration > 0 {
		c.ocrDuration.Observe(ocrDuration.Seconds())
	}
	if status == "processed" {
		c.extracted.Observe(float64(extracted))
	}
}
