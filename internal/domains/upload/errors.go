package upload

import (
	"errors"
	"fmt"
	"net/http"
)

// UploadError is the base error for the upload domain.
type UploadError struct {
	Code    string
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func NewValidationError(err error) *UploadError {
	return &UploadError{
		Code:    "VALIDATION_ERROR",
		Message: err.Error(),
		Err:     err,
	}
}

// NewSigningError covers both missing storage config and signing failures.
// The two are distinguishable in logs but share a generic client response.
func NewSigningError(err error) *UploadError {
	return &UploadError{
		Code:    "UPLOAD_URL_ERROR",
		Message: "Failed to issue upload URL",
		Err:     err,
	}
}

func IsValidationError(err error) bool {
	var upErr *UploadError
	return errors.As(err, &upErr) && upErr.Code == "VALIDATION_ERROR"
}

// GetErrorResponse maps an upload error to (HTTP status, message, code).
func GetErrorResponse(err error) (int, string, string) {
	var upErr *UploadError
	if !errors.As(err, &upErr) {
		return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
	}

	switch upErr.Code {
	case "VALIDATION_ERROR":
		return http.StatusBadRequest, upErr.Message, upErr.Code
	default:
		return http.StatusInternalServerError, upErr.Message, upErr.Code
	}
}
