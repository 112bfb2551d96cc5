package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipeai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// readyTimeout 就緒檢查中每個依賴的逾時
const readyTimeout = 2 * time.Second

// Pinger 可被就緒檢查探測的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   int                    `json:"catalog_recipes"`
	OCR       string                 `json:"ocr_engine"`
}

// Info 健康檢查回報的服務資訊
type Info struct {
	Version        string
	CatalogRecipes int
	OCREngine      string
}

// Handler 健康檢查處理器
type Handler struct {
	info         Info
	dependencies map[string]Pinger
}

// NewHandler 創建健康檢查處理器；dependencies 供就緒檢查使用
func NewHandler(info Info, dependencies map[string]Pinger) *Handler {
	return &Handler{info: info, dependencies: dependencies}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.info.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Catalog: h.info.CatalogRecipes,
		OCR:     h.info.OCREngine,
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 探測所有依賴，任一失敗回 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	checks := make(map[string]string, len(h.dependencies))
	ready := true
	for name, dep := range h.dependencies {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		err := dep.Ping(ctx)
		cancel()
		if err != nil {
			ready = false
			checks[name] = err.Error()
			common.LogWarn("Readiness check failed",
				zap.String("dependency", name),
				zap.Error(err),
			)
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"checks": checks,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
