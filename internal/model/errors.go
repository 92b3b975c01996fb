package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to API callers and job logs.
type ErrorKind string

const (
	KindValidation ErrorKind = "ValidationError"
	KindConflict   ErrorKind = "ConflictError"
	KindNotFound   ErrorKind = "NotFoundError"
	KindTransport  ErrorKind = "TransportError"
	KindAPI        ErrorKind = "APIError"
)

// Error is a domain failure with a stable machine-readable code.
// A sentinel with an empty Code matches every error of its Kind under errors.Is.
type Error struct {
	Err     error
	Kind    ErrorKind
	Code    string
	Message string
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrTransport  = &Error{Kind: KindTransport}
	ErrAPI        = &Error{Kind: KindAPI}
)

var (
	ErrDuplicateEmail    = &Error{Kind: KindConflict, Code: "DUPLICATE_EMAIL", Message: "Email already exists"}
	ErrDuplicatePhone    = &Error{Kind: KindConflict, Code: "DUPLICATE_FIELD", Message: "Phone number already exists"}
	ErrDuplicateRecord   = &Error{Kind: KindConflict, Code: "DUPLICATE_RECORD", Message: "Record already exists"}
	ErrCustomerHasOrders = &Error{Kind: KindConflict, Code: "CUSTOMER_HAS_ORDERS", Message: "Customer has orders"}

	ErrInvalidPhone      = &Error{Kind: KindValidation, Code: "INVALID_FORMAT", Message: "Invalid phone number format"}
	ErrInvalidPrice      = &Error{Kind: KindValidation, Code: "INVALID_PRICE", Message: "Price must be positive"}
	ErrInvalidStock      = &Error{Kind: KindValidation, Code: "INVALID_STOCK", Message: "Stock cannot be negative"}
	ErrInvalidProductIDs = &Error{Kind: KindValidation, Code: "INVALID_PRODUCT_IDS", Message: "At least one product must be selected"}

	ErrCustomerNotFound = &Error{Kind: KindNotFound, Code: "CUSTOMER_NOT_FOUND", Message: "Invalid customer ID"}
	ErrProductNotFound  = &Error{Kind: KindNotFound, Code: "PRODUCT_NOT_FOUND", Message: "Some product IDs are invalid"}
	ErrOrderNotFound    = &Error{Kind: KindNotFound, Code: "ORDER_NOT_FOUND", Message: "Order not found"}
)

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewTransportError marks err as a failure to reach the API.
func NewTransportError(err error) *Error {
	return &Error{Kind: KindTransport, Code: "TRANSPORT", Message: "api request failed", Err: err}
}

// NewAPIError marks err as an error the API returned in its response.
func NewAPIError(err error) *Error {
	return &Error{Kind: KindAPI, Code: "API_ERROR", Message: "api returned an error", Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// Extensions is picked up by the GraphQL error formatter.
func (e *Error) Extensions() map[string]any {
	return map[string]any{
		"code": e.Code,
		"kind": string(e.Kind),
	}
}

// IsKind reports whether any error in err's chain is a domain error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
