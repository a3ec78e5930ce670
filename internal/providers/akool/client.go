package akool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"imagestudio/internal/domain"
	"imagestudio/internal/infra"
)

const defaultBaseURL = "https://openapi.akool.com/api/open/v3"

// Options configures the Akool open API client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Akool image generation API. It holds no
// credentials; every call receives the caller's AuthContext.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// CreateByPromptRequest is the body of POST /content/image/createbyprompt.
type CreateByPromptRequest struct {
	Prompt      string `json:"prompt"`
	Scale       string `json:"scale"`
	WebhookURL  string `json:"webhookUrl"`
	SourceImage string `json:"source_image,omitempty"`
}

// CreateByButtonRequest is the body of POST /content/image/createbybutton.
type CreateByButtonRequest struct {
	ID         string `json:"_id"`
	Button     string `json:"button"`
	WebhookURL string `json:"webhookUrl"`
}

type envelope struct {
	Code  int              `json:"code"`
	Msg   string           `json:"msg"`
	Data  domain.ImageData `json:"data"`
	Token string           `json:"token"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExchangeToken trades client credentials for a bearer token.
func (c *Client) ExchangeToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	body := map[string]string{"clientId": clientID, "clientSecret": clientSecret}
	var out envelope
	if err := c.do(ctx, http.MethodPost, "/getToken", domain.AuthContext{}, body, &out); err != nil {
		return "", err
	}
	if out.Code != domain.CodeSuccess || strings.TrimSpace(out.Token) == "" {
		msg := out.Msg
		if msg == "" {
			msg = "Invalid credentials"
		}
		return "", &domain.ProviderError{Code: out.Code, Message: msg}
	}
	return out.Token, nil
}

// CreateByPrompt starts a text-to-image (or image-to-image) generation.
func (c *Client) CreateByPrompt(ctx context.Context, auth domain.AuthContext, req CreateByPromptRequest) (domain.ImageData, error) {
	return c.call(ctx, http.MethodPost, "/content/image/createbyprompt", auth, req, "Failed to generate image")
}

// CreateByButton starts an upscale or variation of an existing generation.
func (c *Client) CreateByButton(ctx context.Context, auth domain.AuthContext, req CreateByButtonRequest) (domain.ImageData, error) {
	return c.call(ctx, http.MethodPost, "/content/image/createbybutton", auth, req, "Failed to create variant")
}

// InfoByModelID fetches the current state of a generation.
func (c *Client) InfoByModelID(ctx context.Context, auth domain.AuthContext, id string) (domain.ImageData, error) {
	path := "/content/image/infobymodelid?" + url.Values{"image_model_id": {id}}.Encode()
	return c.call(ctx, http.MethodGet, path, auth, nil, "Failed to get status")
}

func (c *Client) call(ctx context.Context, method, path string, auth domain.AuthContext, body any, fallbackMsg string) (domain.ImageData, error) {
	var out envelope
	if err := c.do(ctx, method, path, auth, body, &out); err != nil {
		return domain.ImageData{}, err
	}
	if out.Code != domain.CodeSuccess {
		msg := out.Msg
		if msg == "" {
			msg = fallbackMsg
		}
		perr := &domain.ProviderError{Code: out.Code, Message: msg}
		if !out.Data.IsZero() {
			data := out.Data
			perr.Data = &data
		}
		return domain.ImageData{}, perr
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, auth domain.AuthContext, body any, out *envelope) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("akool: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("akool: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	auth.Apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("akool: request failed")
		return fmt.Errorf("%w: akool: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: akool: read response: %v", domain.ErrTransport, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%w: akool: status %d: %s", domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return fmt.Errorf("%w: akool: decode response: %v", domain.ErrTransport, err)
	}
	if out.Code == 0 && resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: akool: status %d", domain.ErrTransport, resp.StatusCode)
	}
	c.logger.Debug().Str("path", path).Int("code", out.Code).Msg("akool: response")
	return nil
}
