// Package apperror defines the application's error taxonomy and the JSON
// shape every failure takes on the wire. Pipeline steps and handlers return
// these errors; the pipeline executor is the only place that turns them into
// HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType enumerates the categories of application errors.
type ErrorType int

const (
	// InternalError is an unexpected store, crypto or programming failure.
	InternalError ErrorType = iota
	// DatabaseError is a store failure that is not a domain condition.
	DatabaseError
	// ConfigError is a misconfiguration detected at runtime.
	ConfigError
	// ValidationError is malformed or out-of-range client input.
	ValidationError
	// NotFoundError is a referenced identity or resource that does not exist.
	NotFoundError
	// ConflictError is a uniqueness violation on a named field.
	ConflictError
	// AuthError covers bad credentials and missing, malformed or invalid tokens.
	AuthError
	// NoChangesError is an update request that would not change anything.
	NoChangesError
)

// names are the client-visible error names, one per type.
var names = map[ErrorType]string{
	InternalError:   "InternalError",
	DatabaseError:   "InternalError",
	ConfigError:     "InternalError",
	ValidationError: "ValidationError",
	NotFoundError:   "NotFoundError",
	ConflictError:   "ConflictError",
	AuthError:       "AuthenticationError",
	NoChangesError:  "NoChangesDetected",
}

// AppError is the error type carried through the application.
// Message is safe to show to clients; Err is the underlying cause and is only
// exposed when detail exposure is switched on.
type AppError struct {
	Type    ErrorType
	Message string
	// Field names the colliding column for ConflictError.
	Field string
	Err   error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Name returns the client-visible error name.
func (e *AppError) Name() string {
	if n, ok := names[e.Type]; ok {
		return n
	}
	return names[InternalError]
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, ConflictError, NoChangesError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewConflictError creates a ConflictError naming the field that collided.
func NewConflictError(field string, underlyingError error) *AppError {
	e := NewAppError(ConflictError, fmt.Sprintf("%s already exists", field), underlyingError)
	e.Field = field
	return e
}

// NewAuthError creates a new AuthError
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewNoChangesError creates the error returned when an update changes nothing.
func NewNoChangesError() *AppError {
	return NewAppError(NoChangesError, "no changes detected", nil)
}

// ErrorBody is the nested error object of an ErrorResponse.
type ErrorBody struct {
	Name    string `json:"name" example:"ValidationError"`
	Message string `json:"message" example:"username must be between 3 and 20 characters"`
	Field   string `json:"field,omitempty" example:"email"`
	Detail  string `json:"detail,omitempty"`
}

// ErrorResponse is the payload written for every failed request.
// Message duplicates Error.Message for clients that only read the top level.
type ErrorResponse struct {
	Message string    `json:"message" example:"Password is incorrect"`
	Error   ErrorBody `json:"error"`
}

// ToResponse converts an AppError into its wire form. The underlying error is
// included as Detail only when exposeDetail is set.
func (e *AppError) ToResponse(exposeDetail bool) ErrorResponse {
	body := ErrorBody{
		Name:    e.Name(),
		Message: e.Message,
		Field:   e.Field,
	}
	if exposeDetail && e.Err != nil {
		body.Detail = e.Err.Error()
	}
	return ErrorResponse{Message: e.Message, Error: body}
}

// FromError returns the *AppError in err's chain, or wraps err as an
// InternalError when there is none.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("an unexpected error occurred", err)
}

// IsType reports whether err's chain holds an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return IsType(err, NotFoundError)
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	return IsType(err, ConflictError)
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	return IsType(err, ValidationError)
}

// IsAuthError checks if an error is an AuthError
func IsAuthError(err error) bool {
	return IsType(err, AuthError)
}
