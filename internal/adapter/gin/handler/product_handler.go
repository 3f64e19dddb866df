package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commerce-service/internal/adapter/gin/response"
	"commerce-service/internal/usecase/inventory"
	"commerce-service/internal/usecase/product"
	apperrors "commerce-service/pkg/errors"
)

// ProductHandler handles HTTP requests for products and their stock
type ProductHandler struct {
	uc    product.Usecase
	stock inventory.Usecase
	log   *zap.Logger
}

// NewProductHandler creates a new ProductHandler instance
func NewProductHandler(uc product.Usecase, stock inventory.Usecase, log *zap.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stock, log: log}
}

// Register mounts the product routes on rg.
func (h *ProductHandler) Register(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Create)
	products.GET("", h.List)
	products.GET("/sku/:sku", h.GetBySKU)
	products.GET("/category/:category", h.ListByCategory)
	products.GET("/status/:status", h.ListByStatus)
	products.GET("/search", h.Search)
	products.GET("/filter", h.Filter)
	products.GET("/low-stock", h.LowStock)
	products.GET("/best-selling", h.BestSelling)
	products.GET("/categories", h.Categories)
	products.GET("/stats/avg-price-by-category", h.AveragePriceByCategory)
	products.GET("/:id", h.Get)
	products.PUT("/:id", h.Update)
	products.PATCH("/:id/status", h.UpdateStatus)
	products.PATCH("/:id/stock", h.UpdateStock)
	products.DELETE("/:id", h.Delete)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req product.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create product request", zap.Error(err))
		response.Error(c, h.log, bindError(err))
		return
	}

	resp, err := h.uc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	remember(c, lastViewedProduct, strconv.FormatInt(id, 10))
	c.JSON(http.StatusOK, resp)
}

// GetBySKU handles GET /api/products/sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	resp, err := h.uc.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.ListProducts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByCategory handles GET /api/products/category/:category
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	resp, err := h.uc.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByStatus handles GET /api/products/status/:status
func (h *ProductHandler) ListByStatus(c *gin.Context) {
	resp, err := h.uc.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search handles GET /api/products/search?name=
func (h *ProductHandler) Search(c *gin.Context) {
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

	resp, err := h.uc.SearchActive(c.Request.Context(), name, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Filter handles GET /api/products/filter?category&minPrice&maxPrice
func (h *ProductHandler) Filter(c *gin.Context) {
	minPrice, err := optionalDecimalQuery(c, "minPrice")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	maxPrice, err := optionalDecimalQuery(c, "maxPrice")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	req, err := pageRequest(c)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	f := product.FilterRequest{Category: c.Query("category"), MinPrice: minPrice, MaxPrice: maxPrice}
	resp, err := h.uc.FilterActive(c.Request.Context(), f, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock handles GET /api/products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	resp, err := h.stock.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BestSelling handles GET /api/products/best-selling?limit
func (h *ProductHandler) BestSelling(c *gin.Context) {
	limit, err := intQuery(c, "limit", 10)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.BestSelling(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Categories handles GET /api/products/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	resp, err := h.uc.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AveragePriceByCategory handles GET /api/products/stats/avg-price-by-category
func (h *ProductHandler) AveragePriceByCategory(c *gin.Context) {
	resp, err := h.uc.AveragePriceByCategory(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update handles PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	var req product.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid update product request", zap.Int64("id", id), zap.Error(err))
		response.Error(c, h.log, bindError(err))
		return
	}

	resp, err := h.uc.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus handles PATCH /api/products/:id/status?status
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
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

	resp, err := h.uc.UpdateProductStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStock handles PATCH /api/products/:id/stock?quantity&reason
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	if c.Query("quantity") == "" {
		response.Error(c, h.log, apperrors.NewValidationError("quantity", "is required"))
		return
	}
	qty, err := intQuery(c, "quantity", 0)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	if _, err := h.stock.UpdateStock(c.Request.Context(), id, qty, c.Query("reason")); err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	if err := h.uc.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
