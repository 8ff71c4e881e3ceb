package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Status      string            `json:"status"`
	LastChecked time.Time         `json:"last_checked"`
	Uptime      string            `json:"uptime"`
	Version     string            `json:"version"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// HealthChecker pings its dependencies at most once per cacheDuration.
type HealthChecker struct {
	mu            sync.Mutex
	pingers       map[string]Pinger
	version       string
	startTime     time.Time
	cacheDuration time.Duration
	last          *HealthStatus
	now           func() time.Time
}

func NewHealthChecker(version string, pingers map[string]Pinger) *HealthChecker {
	return &HealthChecker{
		pingers:       pingers,
		version:       version,
		startTime:     time.Now(),
		cacheDuration: 5 * time.Second,
		now:           time.Now,
	}
}

func (h *HealthChecker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.check(c.Request.Context())

		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}

func (h *HealthChecker) check(ctx context.Context) HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if h.last != nil && now.Sub(h.last.LastChecked) < h.cacheDuration {
		return *h.last
	}

	status := HealthStatus{
		Status:      "ok",
		LastChecked: now,
		Uptime:      now.Sub(h.startTime).Round(time.Second).String(),
		Version:     h.version,
		Checks:      make(map[string]string, len(h.pingers)),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	for name, pinger := range h.pingers {
		if err := pinger.Ping(pingCtx); err != nil {
			status.Status = "degraded"
			status.Checks[name] = err.Error()
			continue
		}
		status.Checks[name] = "ok"
	}

	h.last = &status
	return status
}
