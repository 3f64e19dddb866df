package inventory

import domain "commerce-service/internal/domain/product"

// StockLevel is the current stock of one product.
type StockLevel struct {
	ProductID     int64  `json:"productId"`
	ProductName   string `json:"productName"`
	SKU           string `json:"sku"`
	StockQuantity int    `json:"stockQuantity"`
	LowStock      bool   `json:"lowStock"`
}

func (s *Service) levelOf(p domain.Product) *StockLevel {
	return &StockLevel{
		ProductID:     p.ID,
		ProductName:   p.Name,
		SKU:           p.SKU,
		StockQuantity: p.StockQuantity,
		LowStock:      p.StockQuantity <= s.thresholds.Low,
	}
}
