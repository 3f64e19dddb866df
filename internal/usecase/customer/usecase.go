package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "commerce-service/internal/domain/customer"
	"commerce-service/internal/domain/page"
	apperrors "commerce-service/pkg/errors"
	"commerce-service/pkg/security"
	"commerce-service/pkg/validation"
)

// Repository defines the interface for customer data access operations.
type Repository interface {
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error) // nil, nil when absent
	List(ctx context.Context, req page.Request) (page.Page[domain.Customer], error)
	SearchByName(ctx context.Context, name string, req page.Request) (page.Page[domain.Customer], error)
	ListByType(ctx context.Context, customerType string) ([]domain.Customer, error)
	ListActive(ctx context.Context, start, end time.Time, minOrders int) ([]domain.Customer, error)
	ListHighValue(ctx context.Context, minAmount decimal.Decimal, since time.Time) ([]domain.Customer, error)
	ListByTotalSpending(ctx context.Context, total decimal.Decimal) ([]domain.Customer, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountOrders(ctx context.Context, id int64) (int64, error)
	HasOrders(ctx context.Context, id int64) (bool, error)
}

// Service implements the business logic for customer management.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new customer Service.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validation.New()}
}

// CreateCustomer creates a customer after validating the request and checking email uniqueness.
func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerRequest) (*Customer, error) {
	s.log.Info("creating customer", zap.String("email", in.Email))

	if err := validation.Struct(s.validate, in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	customerType := in.CustomerType
	if customerType == "" {
		customerType = domain.DefaultType
	}

	created, err := s.repo.Create(ctx, &domain.Customer{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		Phone:        in.Phone,
		CustomerType: customerType,
		Addresses:    addressesToDomain(in.Addresses),
	})
	if err != nil {
		s.log.Error("failed to create customer", zap.Error(err))
		return nil, err
	}

	s.log.Info("customer created", zap.Int64("id", created.ID))
	out := FromDomain(*created)
	return &out, nil
}

// UpdateCustomer applies the non-empty fields of in to an existing customer.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, in UpdateCustomerRequest) (*Customer, error) {
	s.log.Info("updating customer", zap.Int64("id", id))

	if err := validation.Struct(s.validate, in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if email != existing.Email {
			if err := s.ensureEmailFree(ctx, email, id); err != nil {
				return nil, err
			}
		}
		existing.Email = email
	}
	if in.FirstName != "" {
		existing.FirstName = in.FirstName
	}
	if in.LastName != "" {
		existing.LastName = in.LastName
	}
	if in.Phone != "" {
		existing.Phone = in.Phone
	}
	if in.CustomerType != "" {
		existing.CustomerType = in.CustomerType
	}
	// nil leaves the stored addresses alone
	existing.Addresses = addressesToDomain(in.Addresses)

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.log.Error("failed to update customer", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("customer updated", zap.Int64("id", id))
	out := FromDomain(*updated)
	return &out, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, ownerID int64) error {
	found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return err
	}
	if found != nil && found.ID != ownerID {
		s.log.Warn("email already exists", zap.String("email", email), zap.Int64("existing_id", found.ID))
		return apperrors.NewAlreadyExistsError("customer", "customer with email "+email+" already exists")
	}
	return nil
}

// DeleteCustomer removes a customer that has never placed an order.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	s.log.Info("deleting customer", zap.Int64("id", id))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	hasOrders, err := s.repo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if hasOrders {
		s.log.Warn("cannot delete customer with existing orders", zap.Int64("id", id))
		return apperrors.NewConflictError("Cannot delete customer with existing orders")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("customer deleted", zap.Int64("id", id))
	return nil
}

// GetCustomer retrieves a customer by ID.
func (s *Service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := FromDomain(*c)
	return &out, nil
}

// GetCustomerByEmail retrieves a customer by email. Percent-encoded input is decoded first.
func (s *Service) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(security.DecodeIfEscaped(email)))
	if email == "" {
		return nil, apperrors.NewValidationError("email", "email is required")
	}

	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NewNotFoundError("customer", fmt.Sprintf("customer not found: email=%s", email))
	}
	out := FromDomain(*c)
	return &out, nil
}

// SearchCustomers pages through customers whose first or last name contains name.
func (s *Service) SearchCustomers(ctx context.Context, name string, req page.Request) (page.Page[Customer], error) {
	name = security.DecodeIfEscaped(name)
	p, err := s.repo.SearchByName(ctx, name, req)
	if err != nil {
		return page.Page[Customer]{}, err
	}
	s.log.Debug("customer search", zap.String("name", name), zap.Int64("total", p.TotalElements))
	return page.Map(p, FromDomain), nil
}

// ListCustomers returns a page of customers.
func (s *Service) ListCustomers(ctx context.Context, req page.Request) (page.Page[Customer], error) {
	p, err := s.repo.List(ctx, req)
	if err != nil {
		return page.Page[Customer]{}, err
	}
	return page.Map(p, FromDomain), nil
}

// ListCustomersByType lists customers of one type.
func (s *Service) ListCustomersByType(ctx context.Context, customerType string) ([]Customer, error) {
	customerType = strings.TrimSpace(security.DecodeIfEscaped(customerType))
	if customerType == "" {
		return nil, apperrors.NewValidationError("type", "customer type is required")
	}
	customers, err := s.repo.ListByType(ctx, customerType)
	if err != nil {
		return nil, err
	}
	return FromDomainList(customers), nil
}

// ActiveCustomers lists customers with at least minOrders orders in [start, end].
// minOrders below 1 is treated as 1.
func (s *Service) ActiveCustomers(ctx context.Context, start, end time.Time, minOrders int) ([]Customer, error) {
	if end.Before(start) {
		return nil, apperrors.NewValidationError("endDate", "endDate must not be before startDate")
	}
	if minOrders < 1 {
		minOrders = 1
	}
	customers, err := s.repo.ListActive(ctx, start, end, minOrders)
	if err != nil {
		return nil, err
	}
	return FromDomainList(customers), nil
}

// HighValueCustomers lists customers with a delivered order of at least minAmount since the given time.
func (s *Service) HighValueCustomers(ctx context.Context, minAmount decimal.Decimal, since time.Time) ([]Customer, error) {
	if minAmount.IsNegative() {
		return nil, apperrors.NewValidationError("minAmount", "minAmount must not be negative")
	}
	customers, err := s.repo.ListHighValue(ctx, minAmount, since)
	if err != nil {
		return nil, err
	}
	return FromDomainList(customers), nil
}

// CustomersByTotalSpending lists customers whose order totals sum to at least total.
func (s *Service) CustomersByTotalSpending(ctx context.Context, total decimal.Decimal) ([]Customer, error) {
	if total.IsNegative() {
		return nil, apperrors.NewValidationError("totalSpent", "totalSpent must not be negative")
	}
	customers, err := s.repo.ListByTotalSpending(ctx, total)
	if err != nil {
		return nil, err
	}
	return FromDomainList(customers), nil
}

// CountNewCustomersSince counts customers registered at or after since.
func (s *Service) CountNewCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	return s.repo.CountCreatedSince(ctx, since)
}

// CustomerOrderCount counts a customer's non-cancelled orders.
func (s *Service) CustomerOrderCount(ctx context.Context, id int64) (int64, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.repo.CountOrders(ctx, id)
}
