package customer

import (
	"time"

	domain "commerce-service/internal/domain/customer"
)

// CreateCustomerRequest represents the request payload for creating a new customer.
type CreateCustomerRequest struct {
	FirstName    string           `json:"firstName" validate:"required,min=2,max=50"`
	LastName     string           `json:"lastName" validate:"required,min=2,max=50"`
	Email        string           `json:"email" validate:"required,email"`
	Phone        string           `json:"phone" validate:"max=20"`
	CustomerType string           `json:"customerType" validate:"max=20"`
	Addresses    []AddressRequest `json:"addresses" validate:"omitempty,dive"`
}

// UpdateCustomerRequest carries a partial update. Empty fields are left
// unchanged; a non-nil Addresses slice replaces the stored addresses.
type UpdateCustomerRequest struct {
	FirstName    string           `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName     string           `json:"lastName" validate:"omitempty,min=2,max=50"`
	Email        string           `json:"email" validate:"omitempty,email"`
	Phone        string           `json:"phone" validate:"max=20"`
	CustomerType string           `json:"customerType" validate:"max=20"`
	Addresses    []AddressRequest `json:"addresses" validate:"omitempty,dive"`
}

// AddressRequest is a postal address supplied with a customer.
type AddressRequest struct {
	Street      string `json:"street" validate:"required,max=100"`
	City        string `json:"city" validate:"required,max=50"`
	Country     string `json:"country" validate:"required,max=50"`
	PostalCode  string `json:"postalCode" validate:"max=20"`
	AddressType string `json:"addressType" validate:"omitempty,oneof=BILLING SHIPPING"`
}

// Customer is the customer DTO returned to API clients.
type Customer struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	CustomerType string    `json:"customerType"`
	Addresses    []Address `json:"addresses"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Address is an address of the Customer DTO.
type Address struct {
	ID          int64  `json:"id"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Country     string `json:"country"`
	PostalCode  string `json:"postalCode,omitempty"`
	AddressType string `json:"addressType"`
}

// FromDomain converts a domain customer to its DTO.
func FromDomain(c domain.Customer) Customer {
	out := Customer{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		CustomerType: c.CustomerType,
		Addresses:    make([]Address, len(c.Addresses)),
		Version:      c.Version,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	for i, a := range c.Addresses {
		out.Addresses[i] = Address{
			ID:          a.ID,
			Street:      a.Street,
			City:        a.City,
			Country:     a.Country,
			PostalCode:  a.PostalCode,
			AddressType: a.AddressType,
		}
	}
	return out
}

// FromDomainList converts a slice of domain customers.
func FromDomainList(customers []domain.Customer) []Customer {
	out := make([]Customer, len(customers))
	for i, c := range customers {
		out[i] = FromDomain(c)
	}
	return out
}

func addressesToDomain(in []AddressRequest) []domain.Address {
	if in == nil {
		return nil
	}
	out := make([]domain.Address, len(in))
	for i, a := range in {
		typ := a.AddressType
		if typ == "" {
			typ = domain.AddressBilling
		}
		out[i] = domain.Address{
			Street:      a.Street,
			City:        a.City,
			Country:     a.Country,
			PostalCode:  a.PostalCode,
			AddressType: typ,
		}
	}
	return out
}
