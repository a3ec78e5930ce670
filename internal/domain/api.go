package domain

// Payloads exchanged between the studio client and the API server.

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	AuthType     AuthMode `json:"authType"`
	APIKey       string   `json:"apiKey,omitempty"`
	ClientID     string   `json:"clientId,omitempty"`
	ClientSecret string   `json:"clientSecret,omitempty"`
}

// Credentials converts the payload into gateway credentials.
func (r LoginRequest) Credentials() Credentials {
	return Credentials{Mode: r.AuthType, APIKey: r.APIKey, ClientID: r.ClientID, ClientSecret: r.ClientSecret}
}

// LoginResponse is the success body of POST /api/login.
type LoginResponse struct {
	Success  bool     `json:"success"`
	AuthType AuthMode `json:"authType"`
	Message  string   `json:"message"`
	Token    string   `json:"token,omitempty"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Prompt      string `json:"prompt"`
	Scale       string `json:"scale,omitempty"`
	SourceImage string `json:"source_image,omitempty"`
	WebhookURL  string `json:"webhookUrl,omitempty"`
}

// VariantRequest is the body of POST /api/variant.
type VariantRequest struct {
	ID         string `json:"_id"`
	Button     string `json:"button"`
	WebhookURL string `json:"webhookUrl,omitempty"`
}

// Envelope is the common response shape of the generation routes. On
// failure Error is set, and Code and Data when the provider rejected the call.
type Envelope struct {
	Success bool       `json:"success"`
	Data    *ImageData `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
	Code    int        `json:"code,omitempty"`
}

// MessageResponse is the body of POST /api/logout.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthCheckResponse is the body of GET /api/auth/check.
type AuthCheckResponse struct {
	Authenticated bool     `json:"authenticated"`
	AuthType      AuthMode `json:"authType,omitempty"`
}
