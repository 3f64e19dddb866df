package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commerce-service/internal/adapter/gin/response"
	"commerce-service/internal/usecase/order"
)

// OrderHandler handles HTTP requests for orders and sales reports
type OrderHandler struct {
	uc  order.Usecase
	log *zap.Logger
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(uc order.Usecase, log *zap.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// Register mounts the order routes on rg.
func (h *OrderHandler) Register(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/number/:number", h.GetByNumber)
	orders.GET("/customer/:customerId", h.ListByCustomer)
	orders.GET("/date-range", h.ListByDateRange)
	orders.GET("/high-value", h.HighValue)
	orders.GET("/:id", h.Get)
	orders.PATCH("/:id/status", h.UpdateStatus)

	reports := orders.Group("/reports")
	reports.GET("/daily-sales", h.DailySales)
	reports.GET("/revenue", h.Revenue)
	reports.GET("/status-stats", h.StatusStatistics)
	reports.GET("/top-products", h.TopProducts)
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create order request", zap.Error(err))
		response.Error(c, h.log, bindError(err))
		return
	}

	resp, err := h.uc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	remember(c, lastViewedOrder, resp.OrderNumber)
	c.JSON(http.StatusOK, resp)
}

// GetByNumber handles GET /api/orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	resp, err := h.uc.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.ListOrders(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByCustomer handles GET /api/orders/customer/:customerId
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	req, err := pageRequest(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.OrdersByCustomer(c.Request.Context(), customerID, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByDateRange handles GET /api/orders/date-range?startDate&endDate
func (h *OrderHandler) ListByDateRange(c *gin.Context) {
	start, err := dateQuery(c, "startDate")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	end, err := dateQuery(c, "endDate")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	req, err := pageRequest(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.OrdersByDateRange(c.Request.Context(), start, end, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HighValue handles GET /api/orders/high-value?minAmount
func (h *OrderHandler) HighValue(c *gin.Context) {
	minAmount, err := decimalQuery(c, "minAmount")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.HighValueOrders(c.Request.Context(), minAmount)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus handles PATCH /api/orders/:id/status?status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	status, err := requiredQuery(c, "status")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.UpdateOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DailySales handles GET /api/orders/reports/daily-sales?startDate
func (h *OrderHandler) DailySales(c *gin.Context) {
	since, err := dateQuery(c, "startDate")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.DailySales(c.Request.Context(), since)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Revenue handles GET /api/orders/reports/revenue?startDate&endDate
func (h *OrderHandler) Revenue(c *gin.Context) {
	start, err := dateQuery(c, "startDate")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	end, err := dateQuery(c, "endDate")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.Revenue(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StatusStatistics handles GET /api/orders/reports/status-stats?startDate
func (h *OrderHandler) StatusStatistics(c *gin.Context) {
	since, err := dateQuery(c, "startDate")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.StatusStatistics(c.Request.Context(), since)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopProducts handles GET /api/orders/reports/top-products?startDate&limit
func (h *OrderHandler) TopProducts(c *gin.Context) {
	since, err := dateQuery(c, "startDate")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	limit, err := intQuery(c, "limit", 10)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.TopSellingProducts(c.Request.Context(), since, limit)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
