package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"commerce-service/api"
	"commerce-service/internal/adapter/gateway"
	"commerce-service/internal/adapter/gin/handler"
	"commerce-service/internal/adapter/gin/middleware"
	"commerce-service/internal/adapter/gin/response"
)

const openAPIPath = "/swagger/openapi.json"

// Dependencies are the handlers and middleware the router mounts.
type Dependencies struct {
	Customers   *handler.CustomerHandler
	Products    *handler.ProductHandler
	Orders      *handler.OrderHandler
	Sessions    *handler.SessionHandler
	Actuator    *handler.ActuatorHandler
	SessionLoad middleware.SessionLoader
	RateLimiter *middleware.RateLimiter
	Gateway     *gateway.Gateway
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(deps Dependencies, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())
	// global: OPTIONS preflights match no route
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	deps.Actuator.Register(router)

	router.GET("/swagger/*any", swaggerHandler())

	apiGroup := router.Group("/api")
	apiGroup.Use(deps.RateLimiter.Handler())
	if deps.SessionLoad != nil {
		apiGroup.Use(middleware.Session(deps.SessionLoad, log))
	}

	deps.Customers.Register(apiGroup)
	deps.Products.Register(apiGroup)
	deps.Orders.Register(apiGroup)
	deps.Sessions.Register(apiGroup)

	router.NoRoute(func(c *gin.Context) {
		if deps.Gateway != nil && deps.Gateway.Match(c.Request.URL.Path) {
			deps.Gateway.ServeHTTP(c.Writer, c.Request)
			return
		}
		response.Abort(c, http.StatusNotFound, "No handler found for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return router
}

// swaggerHandler serves the embedded OpenAPI document and the Swagger UI.
func swaggerHandler() gin.HandlerFunc {
	ui := httpSwagger.Handler(httpSwagger.URL(openAPIPath))
	return func(c *gin.Context) {
		if c.Param("any") == "/openapi.json" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", api.OpenAPI)
			return
		}
		ui(c.Writer, c.Request)
	}
}
