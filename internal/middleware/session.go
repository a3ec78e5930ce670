package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"imagestudio/internal/gateway"
	"imagestudio/internal/session"
)

var errInvalidSession = errors.New("invalid session cookie")

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session is the per-request view of a client session.
type Session struct {
	ID    string
	store *session.Store[gateway.Gateway]
	opts  SessionOptions
}

// Gateway returns the session's gateway, creating it on first use.
func (s *Session) Gateway() *gateway.Gateway {
	return s.store.Get(s.ID)
}

// Existing returns the session's gateway only if one was created earlier.
func (s *Session) Existing() (*gateway.Gateway, bool) {
	return s.store.Lookup(s.ID)
}

// Destroy drops the session state and expires the cookie.
func (s *Session) Destroy(w http.ResponseWriter) {
	s.store.Delete(s.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type sessionContextKey struct{}

// SignSessionID returns the cookie value for id.
func SignSessionID(secret, id string) string {
	return id + "." + hmacSign(secret, id)
}

// VerifySessionCookie checks the signature and returns the session id.
func VerifySessionCookie(secret, value string) (string, error) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" || sig == "" {
		return "", errInvalidSession
	}
	if !hmac.Equal([]byte(hmacSign(secret, id)), []byte(sig)) {
		return "", errInvalidSession
	}
	return id, nil
}

func hmacSign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Sessions resolves the session cookie, minting a new id when the cookie is
// missing or tampered with. The cookie is refreshed on every request so its
// lifetime follows the store's idle TTL.
func Sessions(opts SessionOptions, store *session.Store[gateway.Gateway]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(opts.CookieName); err == nil {
				id, _ = VerifySessionCookie(opts.Secret, c.Value)
			}
			if id == "" {
				id = uuid.NewString()
			}
			http.SetCookie(w, &http.Cookie{
				Name:     opts.CookieName,
				Value:    SignSessionID(opts.Secret, id),
				Path:     "/",
				MaxAge:   int(opts.TTL.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			sess := &Session{ID: id, store: store, opts: opts}
			ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session attached by Sessions.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	return s, ok
}
