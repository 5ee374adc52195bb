// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by concern
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"
	CodeTimeout  = "TIMEOUT_ERROR"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (409, 422)
	CodeUnknownBranch        = "UNKNOWN_BRANCH"
	CodeAllocationContention = "ALLOCATION_CONTENTION"
	CodeStageAlreadySet      = "STAGE_ALREADY_SET"
	CodeStaleVersion         = "STALE_VERSION"
	CodeItemClosed           = "ITEM_CLOSED"
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"

	// Authorization (403)
	CodeForbiddenScope = "FORBIDDEN_SCOPE"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewUnknownBranch is returned when a document references a branch the catalog
// does not have. Document creation must abort with no partial writes.
func NewUnknownBranch(branch any) *AppError {
	return &AppError{
		Code:       CodeUnknownBranch,
		Message:    "Branch is not registered",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"branch": branch},
	}
}

// NewAllocationContention is returned when the sequence allocator exhausts its
// retry budget. The caller retries the whole document create, not just the
// allocation.
func NewAllocationContention(scope string) *AppError {
	return &AppError{
		Code:       CodeAllocationContention,
		Message:    "Sequence allocation retry budget exhausted",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"scope": scope},
	}
}

// NewStageAlreadySet is returned when a fulfillment stage quantity is written a
// second time without the explicit correction flag.
func NewStageAlreadySet(stage string) *AppError {
	return &AppError{
		Code:       CodeStageAlreadySet,
		Message:    "Stage quantity already recorded; use a correction to change it",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"stage": stage},
	}
}

// NewStaleVersion creates an optimistic locking error
func NewStaleVersion(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeStaleVersion,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewItemClosed is returned when mutating a line item whose received date is
// already stamped. Closed items change only through the correction path.
func NewItemClosed(orderID any, itemIndex int) *AppError {
	return &AppError{
		Code:       CodeItemClosed,
		Message:    "Item is closed; only corrections are allowed",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"order_id": orderID, "item_index": itemIndex},
	}
}

// NewForbiddenScope is returned when a report query names a branch outside the
// caller's allowed set.
func NewForbiddenScope(branch any) *AppError {
	return &AppError{
		Code:       CodeForbiddenScope,
		Message:    "Requested branch is outside the allowed scope",
		HTTPStatus: http.StatusForbidden,
		Details:    map[string]any{"branch": branch},
	}
}

// NewProductNotFound marks a line item whose product the catalog no longer has.
// Aggregation recovers locally (row skipped); this error surfaces only on direct
// product lookups.
func NewProductNotFound(productID any) *AppError {
	return &AppError{
		Code:       CodeProductNotFound,
		Message:    "Product not found in catalog",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"product_id": productID},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsUnknownBranch checks if error is CodeUnknownBranch
func IsUnknownBranch(err error) bool {
	return hasCode(err, CodeUnknownBranch)
}

// IsAllocationContention checks if error is CodeAllocationContention
func IsAllocationContention(err error) bool {
	return hasCode(err, CodeAllocationContention)
}

// IsStageAlreadySet checks if error is CodeStageAlreadySet
func IsStageAlreadySet(err error) bool {
	return hasCode(err, CodeStageAlreadySet)
}

// IsStaleVersion checks if error is CodeStaleVersion
func IsStaleVersion(err error) bool {
	return hasCode(err, CodeStaleVersion)
}

// IsForbiddenScope checks if error is CodeForbiddenScope
func IsForbiddenScope(err error) bool {
	return hasCode(err, CodeForbiddenScope)
}

// IsProductNotFound checks if error is CodeProductNotFound
func IsProductNotFound(err error) bool {
	return hasCode(err, CodeProductNotFound)
}

// IsDuplicate checks if error is CodeDuplicate
func IsDuplicate(err error) bool {
	return hasCode(err, CodeDuplicate)
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
