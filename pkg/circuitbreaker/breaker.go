// Package circuitbreaker keeps named gobreaker instances that share one set of settings.
package circuitbreaker

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	apperrors "commerce-service/pkg/errors"
	"commerce-service/pkg/metrics"
)

// Config controls when breakers trip and how they recover.
type Config struct {
	FailureRatio float64       // Failure ratio that opens the breaker
	MinRequests  uint32        // Requests needed in a window before the ratio is evaluated
	OpenTimeout  time.Duration // Time spent open before probing
	HalfOpenMax  uint32        // Requests allowed through while half-open
	Interval     time.Duration // Closed-state window after which counts reset
}

// Status is a breaker snapshot exposed by the actuator.
type Status struct {
	Name                 string `json:"name"`
	State                string `json:"state"`
	Requests             uint32 `json:"requests"`
	TotalFailures        uint32 `json:"totalFailures"`
	ConsecutiveFailures  uint32 `json:"consecutiveFailures"`
	TotalSuccesses       uint32 `json:"totalSuccesses"`
	ConsecutiveSuccesses uint32 `json:"consecutiveSuccesses"`
}

// Manager lazily creates one breaker per name.
type Manager struct {
	cfg      Config
	log      *zap.Logger
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewManager creates a Manager.
func NewManager(cfg Config, log *zap.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		log:      log,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (m *Manager) get(name string) *gobreaker.CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cb, ok := m.breakers[name]; ok {
		return cb
	}

	cfg := m.cfg
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMax,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.SetBreakerState(name, stateValue(to))
		},
		// Client mistakes must not open the breaker
		IsSuccessful: func(err error) bool {
			return err == nil || apperrors.IsClientError(err)
		},
	})
	m.breakers[name] = cb
	metrics.SetBreakerState(name, stateValue(gobreaker.StateClosed))
	return cb
}

// Execute runs fn through the named breaker. When the breaker rejects the
// call an *errors.UnavailableError is returned.
func (m *Manager) Execute(name string, fn func() (any, error)) (any, error) {
	res, err := m.get(name).Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		m.log.Warn("call rejected by circuit breaker", zap.String("breaker", name), zap.Error(err))
		return nil, apperrors.NewUnavailableError(name, err)
	}
	return res, err
}

// State returns the current state name of a breaker ("closed" if unused).
func (m *Manager) State(name string) string {
	return m.get(name).State().String()
}

// Snapshot lists every breaker created so far, sorted by name.
func (m *Manager) Snapshot() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Status, 0, len(m.breakers))
	for name, cb := range m.breakers {
		c := cb.Counts()
		out = append(out, Status{
			Name:                 name,
			State:                cb.State().String(),
			Requests:             c.Requests,
			TotalFailures:        c.TotalFailures,
			ConsecutiveFailures:  c.ConsecutiveFailures,
			TotalSuccesses:       c.TotalSuccesses,
			ConsecutiveSuccesses: c.ConsecutiveSuccesses,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
