package akool

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"imagestudio/internal/domain"
)

func TestExchangeToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getToken" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["clientId"] != "id" || body["clientSecret"] != "secret" {
			t.Fatalf("unexpected credentials: %+v", body)
		}
		_, _ = w.Write([]byte(`{"code":1000,"token":"tok-1"}`))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	token, err := client.ExchangeToken(context.Background(), "id", "secret")
	if err != nil {
		t.Fatalf("ExchangeToken error: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token: %s", token)
	}
}

func TestExchangeTokenRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1101,"msg":"bad secret"}`))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	_, err := client.ExchangeToken(context.Background(), "id", "wrong")
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if perr.Message != "bad secret" {
		t.Fatalf("unexpected message: %s", perr.Message)
	}
}

func TestCreateByPromptSendsAPIKey(t *testing.T) {
	var captured CreateByPromptRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/image/createbyprompt" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "key-1" {
			t.Fatalf("unexpected api key header: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"code":1000,"data":{"_id":"job-1","image_status":1,"source_image":"https://example.com/src.png"}}`))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	auth := domain.AuthContext{Mode: domain.ModeAPIKey, APIKey: "key-1"}
	data, err := client.CreateByPrompt(context.Background(), auth, CreateByPromptRequest{
		Prompt:      "a cat",
		Scale:       "16:9",
		SourceImage: "https://example.com/src.png",
	})
	if err != nil {
		t.Fatalf("CreateByPrompt error: %v", err)
	}
	if data.ID != "job-1" || data.ImageStatus != 1 {
		t.Fatalf("unexpected data: %+v", data)
	}
	if captured.Prompt != "a cat" || captured.Scale != "16:9" || captured.SourceImage != "https://example.com/src.png" {
		t.Fatalf("unexpected payload: %+v", captured)
	}
}

func TestCreateByButtonUsesBearerToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		var body CreateByButtonRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.ID != "parent" || body.Button != "U2" {
			t.Fatalf("unexpected payload: %+v", body)
		}
		_, _ = w.Write([]byte(`{"code":1000,"data":{"_id":"child","image_status":1}}`))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	auth := domain.AuthContext{Mode: domain.ModeClientCredentials, Token: "tok"}
	data, err := client.CreateByButton(context.Background(), auth, CreateByButtonRequest{ID: "parent", Button: "U2"})
	if err != nil {
		t.Fatalf("CreateByButton error: %v", err)
	}
	if data.ID != "child" {
		t.Fatalf("unexpected id: %s", data.ID)
	}
}

func TestInfoByModelIDMapsProviderCodes(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		target error
	}{
		{name: "auth expired", code: 1101, target: domain.ErrAuthExpired},
		{name: "generation error", code: 1108, target: domain.ErrGenerationFailed},
		{name: "banned", code: 1200, target: domain.ErrAccountBanned},
		{name: "generic", code: 1003, target: domain.ErrProvider},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("image_model_id"); got != "job-9" {
					t.Fatalf("unexpected id param: %q", got)
				}
				_ = json.NewEncoder(w).Encode(map[string]any{"code": tc.code, "msg": "nope"})
			}))
			defer ts.Close()

			client := NewClient(Options{BaseURL: ts.URL})
			auth := domain.AuthContext{Mode: domain.ModeAPIKey, APIKey: "k"}
			_, err := client.InfoByModelID(context.Background(), auth, "job-9")
			if !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := ts.URL
	ts.Close()

	client := NewClient(Options{BaseURL: base})
	auth := domain.AuthContext{Mode: domain.ModeAPIKey, APIKey: "k"}
	if _, err := client.InfoByModelID(context.Background(), auth, "x"); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestNonJSONErrorStatusIsTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	auth := domain.AuthContext{Mode: domain.ModeAPIKey, APIKey: "k"}
	if _, err := client.InfoByModelID(context.Background(), auth, "x"); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestProviderRecordKeptVerbatim(t *testing.T) {
	const record = `{"_id":"job-1","image_status":3,"type":2,"deduction_duration":10}`
	serve := func(code int) *Client {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":` + strconv.Itoa(code) + `,"msg":"generation error","data":` + record + `}`))
		}))
		t.Cleanup(ts.Close)
		return NewClient(Options{BaseURL: ts.URL})
	}
	auth := domain.AuthContext{Mode: domain.ModeAPIKey, APIKey: "k"}

	data, err := serve(domain.CodeSuccess).InfoByModelID(context.Background(), auth, "job-1")
	if err != nil {
		t.Fatalf("InfoByModelID error: %v", err)
	}
	if string(data.Raw()) != record {
		t.Fatalf("Raw() = %s, want %s", data.Raw(), record)
	}

	_, err = serve(domain.CodeGenerationError).InfoByModelID(context.Background(), auth, "job-1")
	var perr *domain.ProviderError
	if !errors.As(err, &perr) || perr.Data == nil {
		t.Fatalf("expected provider error with data, got %v", err)
	}
	if string(perr.Data.Raw()) != record {
		t.Fatalf("error data = %s, want %s", perr.Data.Raw(), record)
	}
}
