package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds surfaced by the core services. Handlers translate
// these into HTTP status codes; nothing here is fatal to the process and
// every operation is retryable with corrected input.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("resource not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrDuplicateAccount     = errors.New("account already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPaymentTimeout       = errors.New("payment timed out")
)

// Wrap annotates a sentinel kind with detail while keeping errors.Is intact.
func Wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{kind}, args...)...)
}

// HTTPStatus maps a service error onto the status code the API returns for it.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientQuantity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrPaymentTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
