package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Common application errors
var (
	ErrNotFound        = NewNotFoundError("resource", "resource not found")
	ErrAlreadyExists   = NewAlreadyExistsError("resource", "resource already exists")
	ErrInvalidArgument = NewValidationError("", "invalid argument")
	ErrInternal        = NewInternalError("internal server error", nil)
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewFieldsValidationError creates a validation error carrying one message per field
func NewFieldsValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  fields,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// HTTPStatus returns the HTTP status code for this error
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *AlreadyExistsError) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// HTTPStatus returns the HTTP status code for this error
func (e *AlreadyExistsError) HTTPStatus() int { return http.StatusConflict }

// ConflictError is returned when an operation is not allowed in the current
// state of a resource (deleting a customer with orders, leaving a terminal
// order status).
type ConflictError struct {
	Message string
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// Error implements the error interface
func (e *ConflictError) Error() string { return e.Message }

// GRPCStatus returns the gRPC status for this error
func (e *ConflictError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Message)
}

// HTTPStatus returns the HTTP status code for this error
func (e *ConflictError) HTTPStatus() int { return http.StatusConflict }

// InsufficientStockError reports that a product cannot cover a requested quantity
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

// NewInsufficientStockError creates a new insufficient stock error
func NewInsufficientStockError(productID int64, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// GRPCStatus returns the gRPC status for this error
func (e *InsufficientStockError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

// HTTPStatus returns the HTTP status code for this error
func (e *InsufficientStockError) HTTPStatus() int { return http.StatusBadRequest }

// UnavailableError is returned when a dependency is temporarily refused,
// for example while a circuit breaker is open.
type UnavailableError struct {
	Service string
	Err     error
}

// NewUnavailableError creates a new unavailable error
func NewUnavailableError(service string, err error) *UnavailableError {
	return &UnavailableError{Service: service, Err: err}
}

// Error implements the error interface
func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s temporarily unavailable: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s temporarily unavailable", e.Service)
}

// Unwrap returns the wrapped error
func (e *UnavailableError) Unwrap() error { return e.Err }

// GRPCStatus returns the gRPC status for this error
func (e *UnavailableError) GRPCStatus() *status.Status {
	return status.New(codes.Unavailable, e.Error())
}

// HTTPStatus returns the HTTP status code for this error
func (e *UnavailableError) HTTPStatus() int { return http.StatusServiceUnavailable }

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Message)
}

// HTTPStatus returns the HTTP status code for this error
func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }

// GRPCStatuser interface for errors that can provide gRPC status
type GRPCStatuser interface {
	GRPCStatus() *status.Status
}

// HTTPStatuser interface for errors that map to an HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}

// HTTPStatus walks the error chain and returns the first mapped HTTP status,
// or 500 when none of the wrapped errors carries one.
func HTTPStatus(err error) int {
	var hs HTTPStatuser
	if stderrors.As(err, &hs) {
		return hs.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ToGRPC converts an application error into a gRPC status error.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	var gs GRPCStatuser
	if stderrors.As(err, &gs) {
		return gs.GRPCStatus().Err()
	}
	return status.Error(codes.Internal, "internal server error")
}

// IsClientError reports whether err was caused by the caller rather than by
// a failing dependency. Circuit breakers do not count these as failures.
func IsClientError(err error) bool {
	if err == nil {
		return false
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		ae *AlreadyExistsError
		ce *ConflictError
		is *InsufficientStockError
	)
	return stderrors.As(err, &ve) || stderrors.As(err, &nf) || stderrors.As(err, &ae) ||
		stderrors.As(err, &ce) || stderrors.As(err, &is)
}

// IsNotFound reports whether err wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}
