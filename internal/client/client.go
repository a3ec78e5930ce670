// Package client talks to the image studio API server on behalf of the
// terminal frontend. The session cookie issued at login is kept in a jar.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"imagestudio/internal/domain"
	"imagestudio/internal/infra"
)

const defaultServerURL = "http://localhost:5000"

// maxImageBytes caps downloads of generated images.
const maxImageBytes = 64 << 20

// Options configures a Client.
type Options struct {
	ServerURL  string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *infra.Logger
}

// Client is the studio's view of the API server.
type Client struct {
	serverURL  string
	httpClient *http.Client
	logger     *infra.Logger
}

// New creates a client. An empty ServerURL falls back to STUDIO_SERVER_URL
// and then to localhost:5000. A supplied HTTPClient without a jar gets one.
func New(opts Options) (*Client, error) {
	serverURL := strings.TrimSpace(opts.ServerURL)
	if serverURL == "" {
		serverURL = os.Getenv("STUDIO_SERVER_URL")
	}
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	if _, err := url.ParseRequestURI(serverURL); err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	logger := opts.Logger
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// ServerURL returns the API server root.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// Login authenticates the session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResponse, error) {
	var out domain.LoginResponse
	body := domain.LoginRequest{
		AuthType:     creds.Mode,
		APIKey:       creds.APIKey,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return domain.LoginResponse{}, err
	}
	return out, nil
}

// Logout clears the server-side auth context.
func (c *Client) Logout(ctx context.Context) error {
	var out domain.MessageResponse
	return c.do(ctx, http.MethodPost, "/api/logout", nil, &out)
}

// CheckAuth reports the session's auth state.
func (c *Client) CheckAuth(ctx context.Context) (domain.AuthCheckResponse, error) {
	var out domain.AuthCheckResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/check", nil, &out); err != nil {
		return domain.AuthCheckResponse{}, err
	}
	return out, nil
}

// Generate submits a prompt.
func (c *Client) Generate(ctx context.Context, req domain.GenerateRequest) (domain.JobHandle, error) {
	data, err := c.envelope(ctx, http.MethodPost, "/api/generate", req)
	if err != nil {
		return domain.JobHandle{}, err
	}
	scale := req.Scale
	if scale == "" {
		scale = domain.DefaultScale
	}
	return data.Handle(req.SourceImage, scale), nil
}

// CreateVariant requests an upscale or variation of jobID.
func (c *Client) CreateVariant(ctx context.Context, jobID string, action domain.ActionCode, webhookURL string) (domain.JobHandle, error) {
	data, err := c.envelope(ctx, http.MethodPost, "/api/variant", domain.VariantRequest{
		ID:         jobID,
		Button:     string(action),
		WebhookURL: webhookURL,
	})
	if err != nil {
		return domain.JobHandle{}, err
	}
	return data.Handle("", ""), nil
}

// GetStatus fetches a job's status. It satisfies tracker.StatusFetcher.
func (c *Client) GetStatus(ctx context.Context, jobID string) (domain.StatusSnapshot, error) {
	data, err := c.envelope(ctx, http.MethodGet, "/api/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return domain.StatusSnapshot{}, err
	}
	snap := data.Snapshot()
	if snap.ID == "" {
		snap.ID = jobID
	}
	return snap, nil
}

// FetchImage downloads a generated image from the provider's CDN.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build image request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetch image: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: fetch image: %s", domain.ErrTransport, resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read image: %v", domain.ErrTransport, err)
	}
	return raw, resp.Header.Get("Content-Type"), nil
}

func (c *Client) envelope(ctx context.Context, method, path string, body any) (domain.ImageData, error) {
	var out domain.Envelope
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return domain.ImageData{}, err
	}
	if out.Data == nil {
		return domain.ImageData{}, nil
	}
	return *out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("client: request failed")
		return fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
	}
	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("client: response")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeFailure(path, resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: unmarshal response: %v", domain.ErrTransport, err)
	}
	return nil
}

// decodeFailure maps a failure envelope onto the domain error taxonomy.
func decodeFailure(path string, status int, raw []byte) error {
	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		env.Error = strings.TrimSpace(string(raw))
	}
	msg := env.Error
	if env.Message != "" {
		if msg == "" {
			msg = env.Message
		} else {
			msg = msg + ": " + env.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case env.Code != 0 && env.Code != domain.CodeSuccess:
		return &domain.ProviderError{Code: env.Code, Message: env.Error, Data: env.Data}
	case status == http.StatusUnauthorized && path == "/api/login":
		return fmt.Errorf("%w: %s", domain.ErrAuth, msg)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthenticated, msg)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	default:
		return fmt.Errorf("%w: server responded %d: %s", domain.ErrTransport, status, msg)
	}
}

// IsSessionLost reports whether err means the server no longer knows the
// session or the provider rejected its credentials.
func IsSessionLost(err error) bool {
	return errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrAuthExpired)
}
