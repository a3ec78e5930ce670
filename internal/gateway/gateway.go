// Package gateway holds the single active provider auth context for a client
// session and performs the login exchange.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"imagestudio/internal/domain"
)

// TokenExchanger trades client credentials for a bearer token.
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, clientID, clientSecret string) (string, error)
}

// LoginSucceeded is the message of every successful login.
const LoginSucceeded = "Authentication successful"

// AuthResult describes a successful login.
type AuthResult struct {
	Mode    domain.AuthMode
	Message string
	Token   string
}

// Status is the outcome of Check.
type Status struct {
	Authenticated bool
	Mode          domain.AuthMode
}

// Gateway owns one auth context. A successful login replaces it; logout clears it.
type Gateway struct {
	exchanger TokenExchanger

	mu   sync.RWMutex
	auth domain.AuthContext
}

// New builds a gateway. exchanger may be nil when only API-key mode is used.
func New(exchanger TokenExchanger) *Gateway {
	return &Gateway{exchanger: exchanger}
}

// Login validates creds and establishes the auth context. On failure the
// previous context is left untouched.
func (g *Gateway) Login(ctx context.Context, creds domain.Credentials) (AuthResult, error) {
	creds.APIKey = strings.TrimSpace(creds.APIKey)
	creds.ClientID = strings.TrimSpace(creds.ClientID)
	creds.ClientSecret = strings.TrimSpace(creds.ClientSecret)
	if err := creds.Validate(); err != nil {
		return AuthResult{}, err
	}

	switch creds.Mode {
	case domain.ModeAPIKey:
		g.set(domain.AuthContext{Mode: domain.ModeAPIKey, APIKey: creds.APIKey})
		return AuthResult{Mode: domain.ModeAPIKey, Message: LoginSucceeded}, nil
	default:
		if g.exchanger == nil {
			return AuthResult{}, fmt.Errorf("%w: token exchange not configured", domain.ErrAuth)
		}
		token, err := g.exchanger.ExchangeToken(ctx, creds.ClientID, creds.ClientSecret)
		if err != nil {
			return AuthResult{}, authError(err)
		}
		g.set(domain.AuthContext{Mode: domain.ModeClientCredentials, Token: token, ClientID: creds.ClientID})
		return AuthResult{Mode: domain.ModeClientCredentials, Message: LoginSucceeded, Token: token}, nil
	}
}

// Logout clears the auth context. Calling it twice is a no-op.
func (g *Gateway) Logout() {
	g.set(domain.AuthContext{})
}

// Check reports whether a context is active and its mode.
func (g *Gateway) Check() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.auth.Authenticated() {
		return Status{}
	}
	return Status{Authenticated: true, Mode: g.auth.Mode}
}

// Context returns a copy of the active auth context.
func (g *Gateway) Context() (domain.AuthContext, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.auth.Authenticated() {
		return domain.AuthContext{}, domain.ErrUnauthenticated
	}
	return g.auth, nil
}

func (g *Gateway) set(auth domain.AuthContext) {
	g.mu.Lock()
	g.auth = auth
	g.mu.Unlock()
}

// authError folds exchange failures into ErrAuth while keeping the cause
// reachable through errors.Is / errors.As.
func authError(err error) error {
	if errors.Is(err, domain.ErrAuth) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrAuth, err)
}
