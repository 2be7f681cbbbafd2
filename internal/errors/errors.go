package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no valid identity can be derived
	// from a request. The token-level reason (missing, malformed, expired,
	// unknown subject) is deliberately not distinguished here.
	ErrUnauthenticated = errors.New("Could not validate credentials")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("Incorrect email or password")
	// ErrPermissionDenied is returned when the actor is not the resource owner.
	ErrPermissionDenied = errors.New("You don't have permission to do this")
	// ErrUserNotFound is returned when a user id is unknown.
	ErrUserNotFound = errors.New("User not found")
	// ErrTaskNotFound is returned when a task id is unknown or belongs to
	// another owner; the two cases are indistinguishable on purpose.
	ErrTaskNotFound = errors.New("Task not found")
	// ErrUsernameTaken is returned when registering with a taken username.
	ErrUsernameTaken = errors.New("Username already exists")
	// ErrEmailTaken is returned when registering with a taken email.
	ErrEmailTaken = errors.New("Email already exists")
	// ErrCredentialsTaken is returned when an update collides with another
	// user's username or email.
	ErrCredentialsTaken = errors.New("Username or email already exists")
)

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error string `json:"detail"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything not in the
// taxonomy is an unrecovered persistence fault and surfaces as 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrPermissionDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "PERMISSION_DENIED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrCredentialsTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "CREDENTIALS_TAKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
