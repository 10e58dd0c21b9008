package brain

import (
	"context"
	"fmt"
)

// Provider is the interface for AI providers
type Provider interface {
	// Name returns the provider name (e.g., "gemini", "groq")
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Generate sends a prompt and returns the response
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to an AI provider
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response is the AI provider's response
type Response struct {
	Content     string
	Model       string
	RawResponse string // The raw API response body for logging/debugging
}

// ErrorKind classifies provider failures. Failures are values carried back to
// the orchestrator, never panics: the fallback loop needs to inspect them.
type ErrorKind int

const (
	// ErrNoCredential means the provider has no API key and cannot be called.
	ErrNoCredential ErrorKind = iota

	// ErrTransport covers network failures and timeouts.
	ErrTransport

	// ErrBackend means the backend answered with an error status or an
	// unusable body.
	ErrBackend
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNoCredential:
		return "no_credential"
	case ErrTransport:
		return "transport"
	case ErrBackend:
		return "backend"
	}
	return "unknown"
}

// ProviderError is the typed failure returned by adapters.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
