package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sentinelai/sentinel/internal/logging"
)

// Compile-time interface satisfaction check
var _ Provider = (*HTTPProvider)(nil)

// ProviderConfig defines how to communicate with an LLM API
type ProviderConfig struct {
	Name         string
	Endpoint     string
	APIKey       string // Actual API key (resolved from env)
	Model        string
	AuthHeader   string            // "Authorization" or a vendor header
	AuthPrefix   string            // "" or "Bearer "
	ExtraHeaders map[string]string // Additional headers

	// AllowKeyless lets the provider run without an API key (public
	// inference endpoints with anonymous quota).
	AllowKeyless bool

	// Request building
	BuildBody func(cfg *ProviderConfig, req Request) map[string]any

	// Response parsing
	ParseResponse func(body []byte) (content, model string, err error)
}

// HTTPProvider is a generic HTTP-based LLM provider
type HTTPProvider struct {
	config *ProviderConfig
	client *http.Client
}

// NewHTTPProvider creates a provider from config. The client timeout bounds
// every backend call; a hung provider must not stall the fallback loop.
func NewHTTPProvider(cfg *ProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		config: cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (p *HTTPProvider) Name() string {
	return p.config.Name
}

func (p *HTTPProvider) Available() bool {
	if p.config.AllowKeyless {
		return true
	}
	return p.config.APIKey != ""
}

// HasCredential reports whether an API key is configured, independent of
// keyless allowance. Used for status reporting.
func (p *HTTPProvider) HasCredential() bool {
	return p.config.APIKey != ""
}

func (p *HTTPProvider) Generate(ctx context.Context, req Request) (Response, error) {
	if !p.Available() {
		return Response{}, providerErr(p.config.Name, ErrNoCredential, fmt.Errorf("provider not configured"))
	}

	logging.Debug("provider request", "provider", p.config.Name, "model", p.config.Model)

	body := p.config.BuildBody(p.config, req)
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Response{}, providerErr(p.config.Name, ErrBackend, fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return Response{}, providerErr(p.config.Name, ErrTransport, fmt.Errorf("create request: %w", err))
	}

	p.setHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return Response{}, providerErr(p.config.Name, ErrTransport, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, providerErr(p.config.Name, ErrTransport, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		logging.Error("API error", "provider", p.config.Name, "status", resp.StatusCode, "body", string(respBody))
		return Response{}, providerErr(p.config.Name, ErrBackend, fmt.Errorf("API error (status %d)", resp.StatusCode))
	}

	content, model, err := p.config.ParseResponse(respBody)
	if err != nil {
		return Response{}, providerErr(p.config.Name, ErrBackend, fmt.Errorf("parse response: %w", err))
	}
	if content == "" {
		return Response{}, providerErr(p.config.Name, ErrBackend, fmt.Errorf("empty completion"))
	}

	logging.Debug("API response", "provider", p.config.Name, "model", model, "content_len", len(content))

	return Response{
		Content:     content,
		Model:       model,
		RawResponse: string(respBody),
	}, nil
}

func (p *HTTPProvider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")

	if p.config.AuthHeader != "" && p.config.APIKey != "" {
		req.Header.Set(p.config.AuthHeader, p.config.AuthPrefix+p.config.APIKey)
	}

	for k, v := range p.config.ExtraHeaders {
		req.Header.Set(k, v)
	}
}
