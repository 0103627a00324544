package health

import (
	"net/http"
	"runtime"
	"time"

	"nutrition-chat/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// HealthResponse reports service status and runtime stats.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	DeepSeek  bool                   `json:"deepseek_configured"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// HealthCheck reports liveness plus whether the LLM fallback is wired.
func HealthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, HealthResponse{
			Status:    "running",
			Message:   "Nutrition Chat API",
			Timestamp: time.Now(),
			Version:   cfg.App.Version,
			DeepSeek:  cfg.DeepSeek.Enabled(),
			Runtime: map[string]interface{}{
				"goroutines": runtime.NumGoroutine(),
				"memory": map[string]interface{}{
					"alloc":  m.Alloc,
					"sys":    m.Sys,
					"num_gc": m.NumGC,
				},
			},
		})
	}
}

// ReadinessCheck reports whether the service can take traffic.
func ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck reports process liveness.
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
