package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commerce-service/internal/adapter/gin/response"
	"commerce-service/internal/usecase/customer"
)

// CustomerHandler handles HTTP requests for customer operations
type CustomerHandler struct {
	uc  customer.Usecase
	log *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler instance
func NewCustomerHandler(uc customer.Usecase, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{uc: uc, log: log}
}

// Register mounts the customer routes on rg.
func (h *CustomerHandler) Register(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/search", h.Search)
	customers.GET("/email/:email", h.GetByEmail)
	customers.GET("/type/:type", h.ListByType)
	customers.GET("/active", h.Active)
	customers.GET("/high-value", h.HighValue)
	customers.GET("/by-spending", h.BySpending)
	customers.GET("/stats/new-since", h.NewSince)
	customers.GET("/:id", h.Get)
	customers.GET("/:id/order-count", h.OrderCount)
	customers.PUT("/:id", h.Update)
	customers.DELETE("/:id", h.Delete)
}

// Create handles POST /api/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customer.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create customer request", zap.Error(err))
		response.Error(c, h.log, bindError(err))
		return
	}

	resp, err := h.uc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByEmail handles GET /api/customers/email/:email
func (h *CustomerHandler) GetByEmail(c *gin.Context) {
	resp, err := h.uc.GetCustomerByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/customers
func (h *CustomerHandler) List(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.ListCustomers(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search handles GET /api/customers/search?name=
func (h *CustomerHandler) Search(c *gin.Context) {
	name, err := requiredQuery(c, "name")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	req, err := pageRequest(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.SearchCustomers(c.Request.Context(), name, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByType handles GET /api/customers/type/:type
func (h *CustomerHandler) ListByType(c *gin.Context) {
	resp, err := h.uc.ListCustomersByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Active handles GET /api/customers/active?startDate&endDate&minOrders
func (h *CustomerHandler) Active(c *gin.Context) {
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
	minOrders, err := intQuery(c, "minOrders", 1)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.ActiveCustomers(c.Request.Context(), start, end, minOrders)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HighValue handles GET /api/customers/high-value?minAmount&since
func (h *CustomerHandler) HighValue(c *gin.Context) {
	minAmount, err := decimalQuery(c, "minAmount")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	since, err := dateQuery(c, "since")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.HighValueCustomers(c.Request.Context(), minAmount, since)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BySpending handles GET /api/customers/by-spending?totalSpent
func (h *CustomerHandler) BySpending(c *gin.Context) {
	total, err := decimalQuery(c, "totalSpent")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.CustomersByTotalSpending(c.Request.Context(), total)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NewSince handles GET /api/customers/stats/new-since?date
func (h *CustomerHandler) NewSince(c *gin.Context) {
	since, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	count, err := h.uc.CountNewCustomersSince(c.Request.Context(), since)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

// OrderCount handles GET /api/customers/:id/order-count
func (h *CustomerHandler) OrderCount(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	count, err := h.uc.CustomerOrderCount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

// Update handles PUT /api/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req customer.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid update customer request", zap.Int64("id", id), zap.Error(err))
		response.Error(c, h.log, bindError(err))
		return
	}

	resp, err := h.uc.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	if err := h.uc.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
