package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError    ErrorType = "VALIDATION_ERROR"
	NotFoundError      ErrorType = "NOT_FOUND"
	AuthError          ErrorType = "AUTHENTICATION_ERROR"
	DatabaseError      ErrorType = "DATABASE_ERROR"
	ServerError        ErrorType = "SERVER_ERROR"
	ForbiddenError     ErrorType = "FORBIDDEN"
	ConflictError      ErrorType = "CONFLICT"
	PartialFailure     ErrorType = "PARTIAL_FAILURE"
	GroupNotFoundError ErrorType = "GROUP_NOT_FOUND"
	GroupAccessError   ErrorType = "GROUP_ACCESS_DENIED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped raw error for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status code for the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// IsRetryable reports whether the caller may re-fetch and retry the whole
// operation. Only conflicts from concurrent mutation qualify.
func (e *AppError) IsRetryable() bool {
	return e.Type == ConflictError
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors
func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func Forbidden(message string, details string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusForbidden,
	}
}

func GroupNotFound(id string) *AppError {
	return &AppError{
		Type:       GroupNotFoundError,
		Message:    "Group not found",
		Detail:     fmt.Sprintf("Group ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func GroupAccessDenied(userID, groupID string) *AppError {
	return &AppError{
		Type:       GroupAccessError,
		Message:    "Access to group denied",
		Detail:     fmt.Sprintf("User %s is not a member of group %s", userID, groupID),
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflictError signals a concurrent-mutation conflict. The operation is
// retryable: the caller should re-fetch and retry as a whole.
func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// NewPartialFailure reports an operation whose primary writes committed but
// whose follow-up step failed. Non-fatal to the caller, but the ledger may
// need reconciliation before a naive retry.
func NewPartialFailure(err error, message string) *AppError {
	return &AppError{
		Type:       PartialFailure,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: http.StatusAccepted,
		Raw:        err,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError, GroupNotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError, GroupAccessError:
		return http.StatusForbidden
	case ConflictError:
		return http.StatusConflict
	case PartialFailure:
		return http.StatusAccepted
	case DatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
