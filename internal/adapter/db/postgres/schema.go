package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"commerce-service/internal/domain/customer"
	"commerce-service/internal/domain/order"
	"commerce-service/internal/domain/product"
)

// CustomerSchema represents the database schema for the customers table.
type CustomerSchema struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	FirstName    string          `gorm:"size:50;not null"`
	LastName     string          `gorm:"size:50;not null"`
	Email        string          `gorm:"size:255;not null;uniqueIndex"`
	Phone        string          `gorm:"size:20"`
	CustomerType string          `gorm:"size:20;not null;default:REGULAR"`
	Addresses    []AddressSchema `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Version      int64           `gorm:"not null;default:0"`
	CreatedAt    time.Time       `gorm:"not null;index"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName specifies the table name for the CustomerSchema model.
func (CustomerSchema) TableName() string {
	return "customers"
}

// AddressSchema represents the database schema for the addresses table.
type AddressSchema struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	CustomerID  int64  `gorm:"not null;index"`
	Street      string `gorm:"size:100;not null"`
	City        string `gorm:"size:50;not null"`
	Country     string `gorm:"size:50;not null"`
	PostalCode  string `gorm:"size:20"`
	AddressType string `gorm:"size:20;not null;default:BILLING"`
}

// TableName specifies the table name for the AddressSchema model.
func (AddressSchema) TableName() string {
	return "addresses"
}

// ProductSchema represents the database schema for the products table.
type ProductSchema struct {
	ID            int64            `gorm:"primaryKey;autoIncrement"`
	Name          string           `gorm:"size:100;not null"`
	Description   string           `gorm:"size:1000"`
	Price         decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Category      string           `gorm:"size:50;index"`
	StockQuantity int              `gorm:"not null;default:0"`
	SKU           string           `gorm:"column:sku;size:50;not null;uniqueIndex"`
	WeightKg      *decimal.Decimal `gorm:"type:numeric(8,3)"`
	Status        string           `gorm:"size:20;not null;default:ACTIVE;index"`
	Version       int64            `gorm:"not null;default:0"`
	CreatedAt     time.Time        `gorm:"not null"`
	UpdatedAt     time.Time        `gorm:"not null"`
}

// TableName specifies the table name for the ProductSchema model.
func (ProductSchema) TableName() string {
	return "products"
}

// OrderSchema represents the database schema for the orders table.
type OrderSchema struct {
	ID              int64             `gorm:"primaryKey;autoIncrement"`
	OrderNumber     string            `gorm:"size:50;not null;uniqueIndex"`
	CustomerID      int64             `gorm:"not null;index"`
	Customer        *CustomerSchema   `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Status          string            `gorm:"size:20;not null;default:PENDING;index"`
	TotalAmount     decimal.Decimal   `gorm:"type:numeric(12,2);not null"`
	ShippingCost    decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	TaxAmount       decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	DiscountAmount  decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingAddress string            `gorm:"size:500"`
	Notes           string            `gorm:"size:500"`
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	Items           []OrderItemSchema `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Version         int64             `gorm:"not null;default:0"`
	CreatedAt       time.Time         `gorm:"not null;index"`
	UpdatedAt       time.Time         `gorm:"not null"`
}

// TableName specifies the table name for the OrderSchema model.
func (OrderSchema) TableName() string {
	return "orders"
}

// OrderItemSchema represents the database schema for the order_items table.
type OrderItemSchema struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	OrderID        int64           `gorm:"not null;index"`
	ProductID      int64           `gorm:"not null;index"`
	Product        *ProductSchema  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity       int             `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName specifies the table name for the OrderItemSchema model.
func (OrderItemSchema) TableName() string {
	return "order_items"
}

// AllSchemas lists every model, in dependency order, for AutoMigrate.
func AllSchemas() []any {
	return []any{
		&CustomerSchema{},
		&AddressSchema{},
		&ProductSchema{},
		&OrderSchema{},
		&OrderItemSchema{},
	}
}

func customerFromSchema(m CustomerSchema) customer.Customer {
	c := customer.Customer{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		Phone:        m.Phone,
		CustomerType: m.CustomerType,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if len(m.Addresses) > 0 {
		c.Addresses = make([]customer.Address, len(m.Addresses))
		for i, a := range m.Addresses {
			c.Addresses[i] = customer.Address{
				ID:          a.ID,
				CustomerID:  a.CustomerID,
				Street:      a.Street,
				City:        a.City,
				Country:     a.Country,
				PostalCode:  a.PostalCode,
				AddressType: a.AddressType,
			}
		}
	}
	return c
}

func customerToSchema(c *customer.Customer) CustomerSchema {
	m := CustomerSchema{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		CustomerType: c.CustomerType,
		Version:      c.Version,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	m.Addresses = addressesToSchema(c.ID, c.Addresses)
	return m
}

func addressesToSchema(customerID int64, addrs []customer.Address) []AddressSchema {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]AddressSchema, len(addrs))
	for i, a := range addrs {
		out[i] = AddressSchema{
			ID:          a.ID,
			CustomerID:  customerID,
			Street:      a.Street,
			City:        a.City,
			Country:     a.Country,
			PostalCode:  a.PostalCode,
			AddressType: a.AddressType,
		}
	}
	return out
}

func productFromSchema(m ProductSchema) product.Product {
	return product.Product{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		Category:      m.Category,
		StockQuantity: m.StockQuantity,
		SKU:           m.SKU,
		WeightKg:      m.WeightKg,
		Status:        product.Status(m.Status),
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func productToSchema(p *product.Product) ProductSchema {
	return ProductSchema{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		SKU:           p.SKU,
		WeightKg:      p.WeightKg,
		Status:        string(p.Status),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func productsFromSchemas(models []ProductSchema) []product.Product {
	out := make([]product.Product, len(models))
	for i, m := range models {
		out[i] = productFromSchema(m)
	}
	return out
}

func orderFromSchema(m OrderSchema) order.Order {
	o := order.Order{
		ID:              m.ID,
		OrderNumber:     m.OrderNumber,
		CustomerID:      m.CustomerID,
		Status:          order.Status(m.Status),
		TotalAmount:     m.TotalAmount,
		ShippingCost:    m.ShippingCost,
		TaxAmount:       m.TaxAmount,
		DiscountAmount:  m.DiscountAmount,
		ShippingAddress: m.ShippingAddress,
		Notes:           m.Notes,
		ShippedAt:       m.ShippedAt,
		DeliveredAt:     m.DeliveredAt,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Customer != nil {
		o.CustomerEmail = m.Customer.Email
	}
	o.Items = make([]order.Item, len(m.Items))
	for i, it := range m.Items {
		o.Items[i] = order.Item{
			ID:             it.ID,
			OrderID:        it.OrderID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount,
			Subtotal:       it.Subtotal,
		}
		if it.Product != nil {
			o.Items[i].ProductName = it.Product.Name
		}
	}
	return o
}

func orderToSchema(o *order.Order) OrderSchema {
	m := OrderSchema{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		ShippingCost:    o.ShippingCost,
		TaxAmount:       o.TaxAmount,
		DiscountAmount:  o.DiscountAmount,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	m.Items = make([]OrderItemSchema, len(o.Items))
	for i, it := range o.Items {
		m.Items[i] = OrderItemSchema{
			ID:             it.ID,
			OrderID:        o.ID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount,
			Subtotal:       it.Subtotal,
		}
	}
	return m
}

func ordersFromSchemas(models []OrderSchema) []order.Order {
	out := make([]order.Order, len(models))
	for i, m := range models {
		out[i] = orderFromSchema(m)
	}
	return out
}
