package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"seo-content-generator/internal/core/automation"
	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Model     string                 `json:"model"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *automation.Status     `json:"queue,omitempty"`
	Jobs      int                    `json:"jobs"`
	WordPress bool                   `json:"wordpress_configured"`
}

// Check 就緒檢查項目
type Check func(ctx context.Context) error

// Handler 健康檢查處理程序
type Handler struct {
	config *config.Config
	queue  *automation.Queue
	jobs   *automation.Store
	checks map[string]Check
}

// NewHandler 創建健康檢查處理程序，checks 為就緒時需通過的外部依賴
func NewHandler(cfg *config.Config, queue *automation.Queue, jobs *automation.Store, checks map[string]Check) *Handler {
	return &Handler{
		config: cfg,
		queue:  queue,
		jobs:   jobs,
		checks: checks,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Model:     h.config.OpenAI.Model,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		WordPress: h.config.WordPress.Enabled(),
	}
	if h.queue != nil {
		response.Queue = h.queue.Status()
	}
	if h.jobs != nil {
		response.Jobs = h.jobs.Len()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，任一依賴失敗回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ready := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			ready = false
			results[name] = err.Error()
			common.LogWarn("Readiness check failed", zap.String("check", name), zap.Error(err))
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"checks": results,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": results,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
