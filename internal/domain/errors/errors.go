package errors

import (
	"net/http"

	"soulgate/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Credential errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Incorrect email or password",
		"",
	)

	// Token errors
	ErrInvalidToken = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN",
		"Token is malformed or its signature does not verify",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"Token has expired",
		"",
	)

	ErrTokenRevoked = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_REVOKED",
		"Refresh token has been revoked, please log in again",
		"",
	)

	ErrTokenNotFound = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_NOT_FOUND",
		"Refresh token is no longer known to the server",
		"",
	)

	ErrPlatformMismatch = NewBaseError(
		http.StatusUnauthorized,
		"PLATFORM_MISMATCH",
		"Refresh token was not issued for the requested platform",
		"",
	)

	// Authorization code errors
	ErrInvalidCode = NewBaseError(
		http.StatusBadRequest,
		"INVALID_CODE",
		"Authorization code is invalid or has expired",
		"",
	)

	ErrCallbackMismatch = NewBaseError(
		http.StatusBadRequest,
		"CALLBACK_MISMATCH",
		"Callback does not match the one the code was issued for",
		"",
	)

	ErrInvalidRedirectURI = NewBaseError(
		http.StatusBadRequest,
		"INVALID_REDIRECT_URI",
		"Callback is not a valid URL for this platform",
		"",
	)

	// Lookup errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User could not be found",
		"",
	)

	ErrPlatformNotFound = NewBaseError(
		http.StatusNotFound,
		"PLATFORM_NOT_FOUND",
		"Platform could not be found",
		"",
	)

	ErrPlatformUserNotFound = NewBaseError(
		http.StatusNotFound,
		"PLATFORM_USER_NOT_FOUND",
		"User is not a member of this platform",
		"",
	)

	// Membership errors
	ErrDuplicatePlatformUser = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_PLATFORM_USER",
		"User is already a member of this platform",
		"",
	)

	ErrNoAdminsRemaining = NewBaseError(
		http.StatusForbidden,
		"NO_ADMINS_REMAINING",
		"It seems like you might be the last admin of this platform. "+
			"You need to appoint another admin before performing this action.",
		"",
	)

	ErrMaxAdminRoles = NewBaseError(
		http.StatusForbidden,
		"MAX_ADMIN_ROLES",
		"The maximum number of admins for this platform has been reached",
		"",
	)

	ErrNoPermission = NewBaseError(
		http.StatusForbidden,
		"PERMISSION_DENIED",
		"You lack the permissions necessary to perform this action.",
		"",
	)

	// Validation errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Request validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
