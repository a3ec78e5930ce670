package domain

import (
	"net/http"
	"strings"
)

// AuthMode selects how credentials are attached to provider calls.
type AuthMode string

const (
	ModeAPIKey            AuthMode = "apikey"
	ModeClientCredentials AuthMode = "token"
)

// Valid reports whether m is a supported mode.
func (m AuthMode) Valid() bool {
	return m == ModeAPIKey || m == ModeClientCredentials
}

// Credentials is the login input. Which fields are required depends on Mode.
type Credentials struct {
	Mode         AuthMode
	APIKey       string
	ClientID     string
	ClientSecret string
}

// Validate checks that the fields required by the mode are present.
func (c Credentials) Validate() error {
	switch c.Mode {
	case ModeAPIKey:
		if strings.TrimSpace(c.APIKey) == "" {
			return Validationf("API key is required")
		}
	case ModeClientCredentials:
		if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.ClientSecret) == "" {
			return Validationf("Client ID and Client Secret are required")
		}
	default:
		return Validationf(`invalid authType %q, must be "apikey" or "token"`, c.Mode)
	}
	return nil
}

// AuthContext is the credential material attached to every provider call.
// The zero value is unauthenticated.
type AuthContext struct {
	Mode     AuthMode
	APIKey   string
	Token    string
	ClientID string
}

// Authenticated reports whether the context carries usable credentials.
func (a AuthContext) Authenticated() bool {
	switch a.Mode {
	case ModeAPIKey:
		return a.APIKey != ""
	case ModeClientCredentials:
		return a.Token != ""
	}
	return false
}

// Apply sets the credential header on an outgoing request.
func (a AuthContext) Apply(req *http.Request) {
	switch a.Mode {
	case ModeAPIKey:
		req.Header.Set("x-api-key", a.APIKey)
	case ModeClientCredentials:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
}
