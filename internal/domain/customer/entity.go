package customer

import "time"

const (
	// DefaultType is assigned to customers created without a type
	DefaultType = "REGULAR"

	AddressBilling  = "BILLING"
	AddressShipping = "SHIPPING"
)

// Customer represents a customer entity in the system.
type Customer struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string // Unique across customers
	Phone        string
	CustomerType string
	Addresses    []Address
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "first last".
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Address is a postal address owned by a customer.
type Address struct {
	ID          int64
	CustomerID  int64
	Street      string
	City        string
	Country     string
	PostalCode  string
	AddressType string
}
