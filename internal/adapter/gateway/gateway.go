// Package gateway forwards configured path prefixes to upstream services.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"commerce-service/internal/config"
	apperrors "commerce-service/pkg/errors"
	"commerce-service/pkg/metrics"
)

// Breaker runs fn under a named circuit breaker.
type Breaker interface {
	Execute(name string, fn func() (any, error)) (any, error)
}

var errUpstream = errors.New("upstream server error")

type route struct {
	id      string
	prefix  string
	proxy   *httputil.ReverseProxy
	limiter *rate.Limiter
}

// Gateway is an http.Handler that proxies matching requests. Each route has
// its own token-bucket limiter and circuit breaker named "gateway:<id>".
type Gateway struct {
	routes  []*route
	breaker Breaker
	log     *zap.Logger
}

// New builds a Gateway from cfg. The rate limit settings apply to each route separately.
func New(cfg config.GatewayConfig, b Breaker, log *zap.Logger) (*Gateway, error) {
	g := &Gateway{breaker: b, log: log}
	for _, rc := range cfg.Routes {
		target, err := url.Parse(rc.Upstream)
		if err != nil {
			return nil, fmt.Errorf("gateway route %s: %w", rc.ID, err)
		}
		g.routes = append(g.routes, &route{
			id:      rc.ID,
			prefix:  strings.TrimRight(rc.PathPrefix, "/"),
			proxy:   newProxy(target, strings.TrimRight(rc.PathPrefix, "/"), log.With(zap.String("route", rc.ID))),
			limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		})
		log.Info("gateway route registered",
			zap.String("route", rc.ID),
			zap.String("prefix", rc.PathPrefix),
			zap.String("upstream", rc.Upstream))
	}
	// longest prefix wins
	sort.Slice(g.routes, func(i, j int) bool { return len(g.routes[i].prefix) > len(g.routes[j].prefix) })
	return g, nil
}

func newProxy(target *url.URL, prefix string, log *zap.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			path := strings.TrimPrefix(pr.In.URL.Path, prefix)
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			pr.Out.URL.Path = path
			pr.Out.URL.RawPath = ""
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("upstream request failed", zap.String("path", r.URL.Path), zap.Error(err))
			writeError(w, http.StatusBadGateway, "upstream unavailable")
		},
	}
}

func (g *Gateway) match(path string) *route {
	for _, rt := range g.routes {
		if path == rt.prefix || strings.HasPrefix(path, rt.prefix+"/") {
			return rt
		}
	}
	return nil
}

// Match reports whether a route handles path.
func (g *Gateway) Match(path string) bool {
	return g.match(path) != nil
}

// ServeHTTP proxies r to the matching upstream.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt := g.match(r.URL.Path)
	if rt == nil {
		writeError(w, http.StatusNotFound, "no route for "+r.URL.Path)
		return
	}

	if !rt.limiter.Allow() {
		metrics.RecordGatewayRequest(rt.id, http.StatusTooManyRequests)
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	_, err := g.breaker.Execute("gateway:"+rt.id, func() (any, error) {
		rt.proxy.ServeHTTP(rec, r)
		if rec.status >= http.StatusInternalServerError {
			return nil, errUpstream
		}
		return nil, nil
	})

	var ue *apperrors.UnavailableError
	if errors.As(err, &ue) {
		metrics.RecordGatewayRequest(rt.id, http.StatusServiceUnavailable)
		writeError(w, http.StatusServiceUnavailable, "service "+rt.id+" is temporarily unavailable")
		return
	}
	metrics.RecordGatewayRequest(rt.id, rec.status)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"error":     http.StatusText(status),
		"message":   msg,
		"timestamp": time.Now().UTC(),
	})
}
