package product

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"commerce-service/internal/domain/page"
	domain "commerce-service/internal/domain/product"
	apperrors "commerce-service/pkg/errors"
	"commerce-service/pkg/security"
	"commerce-service/pkg/validation"
)

const (
	defaultBestSellingLimit = 10
	maxBestSellingLimit     = 100
)

var minPrice = decimal.RequireFromString("0.01")

// Repository defines the interface for product data access operations.
type Repository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error) // nil, nil when absent
	List(ctx context.Context, req page.Request) (page.Page[domain.Product], error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Product, error)
	SearchActive(ctx context.Context, name string, req page.Request) (page.Page[domain.Product], error)
	FilterActive(ctx context.Context, f domain.Filter, req page.Request) (page.Page[domain.Product], error)
	HasOrderItems(ctx context.Context, id int64) (bool, error)
	Categories(ctx context.Context) ([]string, error)
	AveragePriceByCategory(ctx context.Context) ([]domain.CategoryAverage, error)
	BestSelling(ctx context.Context, limit int) ([]domain.Product, error)
}

// Service implements the business logic for the product catalogue.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new product Service.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validation.New()}
}

// generateSKU builds "<CAT>-<8 hex>" from the category, or "PRD-<8 hex>".
func generateSKU(category string) string {
	prefix := "PRD"
	if len([]rune(category)) >= 3 {
		prefix = strings.ToUpper(string([]rune(category)[:3]))
	}
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func validatePrice(p decimal.Decimal) error {
	if p.LessThan(minPrice) {
		return apperrors.NewValidationError("price", "price must be greater than 0")
	}
	return nil
}

// CreateProduct creates a product, generating a SKU when none is given.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductRequest) (*Product, error) {
	s.log.Info("creating product", zap.String("name", in.Name), zap.String("sku", in.SKU))

	if err := validation.Struct(s.validate, in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		sku = generateSKU(in.Category)
	}

	existing, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		s.log.Error("failed to check existing sku", zap.String("sku", sku), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		s.log.Warn("sku already exists", zap.String("sku", sku))
		return nil, apperrors.NewAlreadyExistsError("product", "product with sku "+sku+" already exists")
	}

	status := domain.StatusActive
	if in.Status != "" {
		status = domain.Status(in.Status)
	}

	created, err := s.repo.Create(ctx, &domain.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Category:      in.Category,
		StockQuantity: in.StockQuantity,
		SKU:           sku,
		WeightKg:      in.WeightKg,
		Status:        status,
	})
	if err != nil {
		s.log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	out := FromDomain(*created)
	return &out, nil
}

// UpdateProduct applies the set fields of in to an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in UpdateProductRequest) (*Product, error) {
	s.log.Info("updating product", zap.Int64("id", id))

	if err := validation.Struct(s.validate, in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.SKU != nil && *in.SKU != "" && *in.SKU != p.SKU {
		existing, err := s.repo.GetBySKU(ctx, *in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.log.Warn("sku already exists", zap.String("sku", *in.SKU), zap.Int64("existing_id", existing.ID))
			return nil, apperrors.NewAlreadyExistsError("product", "product with sku "+*in.SKU+" already exists")
		}
		p.SKU = *in.SKU
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.WeightKg != nil {
		p.WeightKg = in.WeightKg
	}
	if in.Status != nil {
		p.Status = domain.Status(*in.Status)
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		s.log.Error("failed to update product", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	out := FromDomain(*updated)
	return &out, nil
}

// UpdateProductStatus changes the lifecycle status of a product.
func (s *Service) UpdateProductStatus(ctx context.Context, id int64, status string) (*Product, error) {
	st, ok := domain.ParseStatus(strings.ToUpper(status))
	if !ok {
		return nil, apperrors.NewValidationError("status", "status must be one of ACTIVE, INACTIVE, DISCONTINUED")
	}

	p, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}

	out := FromDomain(*p)
	return &out, nil
}

// DeleteProduct removes a product. Products already referenced by orders are
// marked DISCONTINUED instead.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	s.log.Info("deleting product", zap.Int64("id", id))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	referenced, err := s.repo.HasOrderItems(ctx, id)
	if err != nil {
		s.log.Error("failed to check product order items", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if referenced {
		if _, err := s.repo.UpdateStatus(ctx, id, domain.StatusDiscontinued); err != nil {
			return err
		}
		s.log.Info("product referenced by orders marked discontinued", zap.Int64("id", id))
		return nil
	}

	return s.repo.Delete(ctx, id)
}

// GetProduct retrieves a product by ID.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "invalid product id")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out := FromDomain(*p)
	return &out, nil
}

// GetProductBySKU retrieves a product by SKU, decoding a percent-encoded value.
func (s *Service) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	sku = security.DecodeIfEscaped(sku)

	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("product", "product not found: sku="+sku)
	}

	out := FromDomain(*p)
	return &out, nil
}

// ListProducts returns a page of all products.
func (s *Service) ListProducts(ctx context.Context, req page.Request) (page.Page[Product], error) {
	s.log.Info("listing products", zap.Int("page", req.Page), zap.Int("size", req.Size))

	p, err := s.repo.List(ctx, req)
	if err != nil {
		return page.Page[Product]{}, err
	}
	return page.Map(p, FromDomain), nil
}

// ListByCategory returns every product in a category.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	products, err := s.repo.ListByCategory(ctx, security.DecodeIfEscaped(category))
	if err != nil {
		return nil, err
	}
	return FromDomainList(products), nil
}

// ListByStatus returns every product with status.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]Product, error) {
	st, ok := domain.ParseStatus(strings.ToUpper(status))
	if !ok {
		return nil, apperrors.NewValidationError("status", "status must be one of ACTIVE, INACTIVE, DISCONTINUED")
	}

	products, err := s.repo.ListByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return FromDomainList(products), nil
}

// SearchActive finds active products by name substring.
func (s *Service) SearchActive(ctx context.Context, name string, req page.Request) (page.Page[Product], error) {
	name = security.DecodeIfEscaped(name)
	s.log.Info("searching products", zap.String("name", name))

	p, err := s.repo.SearchActive(ctx, name, req)
	if err != nil {
		return page.Page[Product]{}, err
	}
	return page.Map(p, FromDomain), nil
}

// FilterActive returns active products within a category and price range.
func (s *Service) FilterActive(ctx context.Context, f FilterRequest, req page.Request) (page.Page[Product], error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return page.Page[Product]{}, apperrors.NewValidationError("minPrice", "minPrice must not exceed maxPrice")
	}

	p, err := s.repo.FilterActive(ctx, domain.Filter{
		Category: f.Category,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
	}, req)
	if err != nil {
		return page.Page[Product]{}, err
	}
	return page.Map(p, FromDomain), nil
}

// Categories returns the sorted distinct categories of active products.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// AveragePriceByCategory reports the mean active price per category.
func (s *Service) AveragePriceByCategory(ctx context.Context) ([]CategoryAverage, error) {
	avgs, err := s.repo.AveragePriceByCategory(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryAverage, len(avgs))
	for i, a := range avgs {
		out[i] = CategoryAverage{Category: a.Category, AveragePrice: a.AveragePrice}
	}
	return out, nil
}

// BestSelling returns up to limit products ranked by quantity sold.
func (s *Service) BestSelling(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultBestSellingLimit
	}
	if limit > maxBestSellingLimit {
		limit = maxBestSellingLimit
	}

	products, err := s.repo.BestSelling(ctx, limit)
	if err != nil {
		return nil, err
	}
	return FromDomainList(products), nil
}
