package studio

import (
	"errors"
	"strings"

	"imagestudio/internal/domain"
	"imagestudio/internal/tracker"
)

// UserMessage turns an interactive error into the line shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		switch perr.Kind() {
		case domain.ProviderAuthExpired:
			return "Authentication expired. Please login again."
		case domain.ProviderGenerationError:
			return "Image generation error. Please try again later."
		case domain.ProviderAccountBanned:
			return "Account has been banned."
		}
		if perr.Message != "" {
			return perr.Message
		}
		return "Request failed."
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "Not authenticated. Please login first."
	case errors.Is(err, domain.ErrAuth):
		return "Login failed: " + detail(err, domain.ErrAuth)
	case errors.Is(err, domain.ErrValidation):
		return detail(err, domain.ErrValidation)
	case errors.Is(err, ErrActionUnavailable):
		return "That action is not available for this image."
	case errors.Is(err, domain.ErrNotFound):
		return "No such job."
	case errors.Is(err, tracker.ErrTrackerClosed):
		return "Session closed."
	case errors.Is(err, domain.ErrTransport):
		return "Could not reach the server. Please try again."
	}
	return err.Error()
}

// detail strips everything up to and including the sentinel's text.
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}
