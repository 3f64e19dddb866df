package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginrouter "commerce-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(deps ginrouter.Dependencies, ginAddr string, l *zap.Logger) *http.Server {
	router := ginrouter.SetupRouter(deps, l)

	l.Info("Gin REST API configured",
		zap.String("address", ginAddr),
		zap.String("swagger", "/swagger/index.html"))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
