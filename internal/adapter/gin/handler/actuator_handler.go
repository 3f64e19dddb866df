package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commerce-service/pkg/circuitbreaker"
	"commerce-service/pkg/metrics"
)

const (
	statusUp   = "UP"
	statusDown = "DOWN"

	healthTimeout = 2 * time.Second
)

// HealthCheck reports an error when a dependency is unreachable.
type HealthCheck func(ctx context.Context) error

// BreakerSnapshotter reports the state of every circuit breaker.
type BreakerSnapshotter interface {
	Snapshot() []circuitbreaker.Status
}

// AppInfo is served by /actuator/info.
type AppInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// ComponentHealth is the health of one dependency.
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse aggregates component health.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

// ActuatorHandler serves operational endpoints.
type ActuatorHandler struct {
	checks   map[string]HealthCheck
	breakers BreakerSnapshotter
	info     AppInfo
	log      *zap.Logger
}

// NewActuatorHandler creates a new ActuatorHandler instance
func NewActuatorHandler(checks map[string]HealthCheck, breakers BreakerSnapshotter, info AppInfo, log *zap.Logger) *ActuatorHandler {
	return &ActuatorHandler{checks: checks, breakers: breakers, info: info, log: log}
}

// Register mounts the actuator routes on r.
func (h *ActuatorHandler) Register(r gin.IRouter) {
	actuator := r.Group("/actuator")
	actuator.GET("/health", h.Health)
	actuator.GET("/info", h.Info)
	actuator.GET("/prometheus", gin.WrapH(metrics.Handler()))
	actuator.GET("/circuitbreakers", h.CircuitBreakers)
}

// Health handles GET /actuator/health. Any component down yields 503.
func (h *ActuatorHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{Status: statusUp, Components: make(map[string]ComponentHealth, len(h.checks))}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("component", name), zap.Error(err))
			resp.Components[name] = ComponentHealth{Status: statusDown, Error: err.Error()}
			resp.Status = statusDown
			continue
		}
		resp.Components[name] = ComponentHealth{Status: statusUp}
	}

	code := http.StatusOK
	if resp.Status == statusDown {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Info handles GET /actuator/info
func (h *ActuatorHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"app": h.info})
}

// CircuitBreakers handles GET /actuator/circuitbreakers
func (h *ActuatorHandler) CircuitBreakers(c *gin.Context) {
	snapshot := h.breakers.Snapshot()
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].Name < snapshot[j].Name })
	c.JSON(http.StatusOK, gin.H{"circuitBreakers": snapshot})
}
