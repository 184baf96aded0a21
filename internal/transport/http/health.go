package httptransport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// LoadReporter reports whether a lazily built component is ready.
type LoadReporter interface {
	Loaded() bool
}

// HealthService reports process liveness, host resource usage, and which of
// the lazy analysis engines have been warmed up.
type HealthService struct {
	started    time.Time
	transcribe LoadReporter
	sentiment  LoadReporter
}

func NewHealthService(transcriber, sentiment LoadReporter) *HealthService {
	return &HealthService{
		started:    time.Now(),
		transcribe: transcriber,
		sentiment:  sentiment,
	}
}

// Register wires the health route onto the given group.
func (s *HealthService) Register(group *gin.RouterGroup) {
	group.GET("/health", s.handleHealth)
}

func (s *HealthService) handleHealth(c *gin.Context) {
	payload := gin.H{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"engines": gin.H{
			"transcription": loaded(s.transcribe),
			"sentiment":     loaded(s.sentiment),
		},
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		payload["memory_used_percent"] = vm.UsedPercent
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		payload["cpu_percent"] = pct[0]
	}

	RespondSuccess(c, http.StatusOK, payload, "")
}

func loaded(r LoadReporter) string {
	if r == nil {
		return "unavailable"
	}
	if r.Loaded() {
		return "loaded"
	}
	return "cold"
}
