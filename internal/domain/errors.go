package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrAuth               = errors.New("authentication failed")
	ErrTransport          = errors.New("transport failure")
	ErrProvider           = errors.New("provider failure")
	ErrAuthExpired        = errors.New("authentication expired")
	ErrGenerationFailed   = errors.New("image generation error")
	ErrAccountBanned      = errors.New("account banned")
	ErrDuplicateOperation = errors.New("duplicate operation")
)

// Provider status codes returned in the response envelope.
const (
	CodeSuccess         = 1000
	CodeAuthExpired     = 1101
	CodeGenerationError = 1108
	CodeAccountBanned   = 1200
)

// ProviderErrorKind classifies a non-success provider code.
type ProviderErrorKind string

const (
	ProviderAuthExpired     ProviderErrorKind = "auth_expired"
	ProviderGenerationError ProviderErrorKind = "generation_error"
	ProviderAccountBanned   ProviderErrorKind = "account_banned"
	ProviderFailure         ProviderErrorKind = "failure"
)

// ProviderError carries the provider's numeric code and message, plus the
// record the provider attached to the failure, if any.
type ProviderError struct {
	Code    int
	Message string
	Data    *ImageData
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider error (code %d)", e.Code)
	}
	return fmt.Sprintf("provider error (code %d): %s", e.Code, e.Message)
}

// Kind maps the code onto the known taxonomy.
func (e *ProviderError) Kind() ProviderErrorKind {
	switch e.Code {
	case CodeAuthExpired:
		return ProviderAuthExpired
	case CodeGenerationError:
		return ProviderGenerationError
	case CodeAccountBanned:
		return ProviderAccountBanned
	default:
		return ProviderFailure
	}
}

// Is lets errors.Is match both ErrProvider and the kind-specific sentinel.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrProvider:
		return true
	case ErrAuthExpired:
		return e.Kind() == ProviderAuthExpired
	case ErrGenerationFailed:
		return e.Kind() == ProviderGenerationError
	case ErrAccountBanned:
		return e.Kind() == ProviderAccountBanned
	}
	return false
}

// NewProviderError builds a ProviderError, or nil when code signals success.
func NewProviderError(code int, message string) error {
	if code == CodeSuccess {
		return nil
	}
	return &ProviderError{Code: code, Message: message}
}

// Validationf returns an ErrValidation wrapping a formatted detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
