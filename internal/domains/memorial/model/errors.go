package model

import (
	"errors"
	"fmt"
	"net/http"
)

// MemorialError is the base error for the memorial domain.
type MemorialError struct {
	Code    string // stable machine code (e.g. "MEMORIAL_NOT_FOUND")
	Message string // human-readable message, shown to the client verbatim
	Err     error  // underlying error
}

func (e *MemorialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *MemorialError) Unwrap() error {
	return e.Err
}

// ============================================
// DOMAIN ERROR DEFINITIONS
// ============================================

var ErrMemorialNotFound = &MemorialError{
	Code:    "MEMORIAL_NOT_FOUND",
	Message: "Memorial not found",
}

var ErrSlugTaken = &MemorialError{
	Code:    "SLUG_TAKEN",
	Message: "A memorial with this slug already exists",
}

var ErrEditKeyMissing = &MemorialError{
	Code:    "EDIT_KEY_MISSING",
	Message: "Edit key is required",
}

var ErrEditKeyMismatch = &MemorialError{
	Code:    "EDIT_KEY_MISMATCH",
	Message: "Edit key does not match",
}

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

// NewValidationError wraps an ozzo validation error so the handler can map
// it to 400 with the validator's message.
func NewValidationError(err error) *MemorialError {
	return &MemorialError{
		Code:    "VALIDATION_ERROR",
		Message: err.Error(),
		Err:     err,
	}
}

// NewStorageError wraps a record-store or object-store failure. Surfaced as
// 500 so the client knows the operation is retryable.
func NewStorageError(op string, err error) *MemorialError {
	return &MemorialError{
		Code:    "STORAGE_ERROR",
		Message: fmt.Sprintf("Storage operation failed: %s", op),
		Err:     err,
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func IsNotFound(err error) bool {
	var memErr *MemorialError
	return errors.As(err, &memErr) && memErr.Code == "MEMORIAL_NOT_FOUND"
}

func IsSlugTaken(err error) bool {
	var memErr *MemorialError
	return errors.As(err, &memErr) && memErr.Code == "SLUG_TAKEN"
}

func IsEditKeyMissing(err error) bool {
	var memErr *MemorialError
	return errors.As(err, &memErr) && memErr.Code == "EDIT_KEY_MISSING"
}

func IsEditKeyMismatch(err error) bool {
	var memErr *MemorialError
	return errors.As(err, &memErr) && memErr.Code == "EDIT_KEY_MISMATCH"
}

func IsValidationError(err error) bool {
	var memErr *MemorialError
	return errors.As(err, &memErr) && memErr.Code == "VALIDATION_ERROR"
}

// GetErrorResponse maps a domain error to (HTTP status, message, code).
func GetErrorResponse(err error) (int, string, string) {
	var memErr *MemorialError
	if !errors.As(err, &memErr) {
		return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
	}

	switch memErr.Code {
	case "VALIDATION_ERROR":
		return http.StatusBadRequest, memErr.Message, memErr.Code
	case "EDIT_KEY_MISSING":
		return http.StatusUnauthorized, memErr.Message, memErr.Code
	case "EDIT_KEY_MISMATCH":
		return http.StatusForbidden, memErr.Message, memErr.Code
	case "MEMORIAL_NOT_FOUND":
		return http.StatusNotFound, memErr.Message, memErr.Code
	case "SLUG_TAKEN":
		return http.StatusConflict, memErr.Message, memErr.Code
	case "STORAGE_ERROR":
		return http.StatusInternalServerError, memErr.Message, memErr.Code
	default:
		return http.StatusInternalServerError, memErr.Message, memErr.Code
	}
}
