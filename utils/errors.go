package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidationError reports rejected input: bad metadata vocabulary, empty
// content, dimension mismatches, unsupported file types.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing document or chunk.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ProviderError wraps a failure from an external AI provider (embedding or
// generation). Retryable hints whether a later attempt may succeed.
type ProviderError struct {
	Provider  string
	Op        string
	Retryable bool
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IndexError wraps a vector index storage failure.
type IndexError struct {
	Op  string
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s failed: %v", e.Op, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// ScopeViolationError reports a question judged outside the knowledge
// base's organizational scope.
type ScopeViolationError struct {
	Question string
}

func (e *ScopeViolationError) Error() string {
	return "question is outside the organizational knowledge scope"
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

func IsIndex(err error) bool {
	var ie *IndexError
	return errors.As(err, &ie)
}

func IsScopeViolation(err error) bool {
	var se *ScopeViolationError
	return errors.As(err, &se)
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithUnauthorized sends a 401 Unauthorized error
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

// RespondWithForbidden sends a 403 Forbidden error
func RespondWithForbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, "forbidden", message, nil)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// RespondWithDomainError maps a typed domain error to the matching HTTP
// status and error code. Unknown errors become 500s with no detail leaked.
func RespondWithDomainError(c *gin.Context, err error) {
	switch {
	case IsValidation(err):
		RespondWithBadRequest(c, err.Error(), nil)
	case IsNotFound(err):
		RespondWithNotFound(c, err.Error())
	case IsScopeViolation(err):
		RespondWithError(c, http.StatusUnprocessableEntity, "out_of_scope", err.Error(), nil)
	case IsProvider(err):
		RespondWithError(c, http.StatusBadGateway, "provider_error", "upstream provider failed", nil)
	case IsIndex(err):
		RespondWithInternalError(c, "index operation failed", nil)
	default:
		RespondWithInternalError(c, "internal error", nil)
	}
}
