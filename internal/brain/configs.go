package brain

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sentinelai/sentinel/internal/logging"
)

// Provider configurations. Priority order is fixed: Gemini first, then Groq,
// Mistral, OpenRouter, and keyless HuggingFace as the last resort.

func GeminiConfig() *ProviderConfig {
	model := getEnvOr("GEMINI_MODEL", "gemini-2.0-flash")
	return &ProviderConfig{
		Name:          "gemini",
		Endpoint:      "https://generativelanguage.googleapis.com/v1beta/models/" + model + ":generateContent",
		APIKey:        os.Getenv("GEMINI_API_KEY"),
		Model:         model,
		AuthHeader:    "x-goog-api-key",
		AuthPrefix:    "",
		BuildBody:     buildGeminiBody,
		ParseResponse: parseGeminiResponse,
	}
}

func GroqConfig() *ProviderConfig {
	return &ProviderConfig{
		Name:          "groq",
		Endpoint:      "https://api.groq.com/openai/v1/chat/completions",
		APIKey:        os.Getenv("GROQ_API_KEY"),
		Model:         getEnvOr("GROQ_MODEL", "llama-3.3-70b-versatile"),
		AuthHeader:    "Authorization",
		AuthPrefix:    "Bearer ",
		BuildBody:     buildOpenAIBody, // Groq uses an OpenAI-compatible API
		ParseResponse: parseOpenAIResponse,
	}
}

func MistralConfig() *ProviderConfig {
	return &ProviderConfig{
		Name:          "mistral",
		Endpoint:      "https://api.mistral.ai/v1/chat/completions",
		APIKey:        os.Getenv("MISTRAL_API_KEY"),
		Model:         getEnvOr("MISTRAL_MODEL", "mistral-large-latest"),
		AuthHeader:    "Authorization",
		AuthPrefix:    "Bearer ",
		BuildBody:     buildOpenAIBody,
		ParseResponse: parseOpenAIResponse,
	}
}

func OpenRouterConfig() *ProviderConfig {
	return &ProviderConfig{
		Name:          "openrouter",
		Endpoint:      "https://openrouter.ai/api/v1/chat/completions",
		APIKey:        os.Getenv("OPENROUTER_API_KEY"),
		Model:         getEnvOr("OPENROUTER_MODEL", "google/gemini-2.0-flash-001"),
		AuthHeader:    "Authorization",
		AuthPrefix:    "Bearer ",
		BuildBody:     buildOpenAIBody,
		ParseResponse: parseOpenAIResponse,
	}
}

func HuggingFaceConfig() *ProviderConfig {
	model := getEnvOr("HUGGINGFACE_MODEL", "Qwen/Qwen2.5-72B-Instruct")
	return &ProviderConfig{
		Name:          "huggingface",
		Endpoint:      "https://api-inference.huggingface.co/models/" + model,
		APIKey:        os.Getenv("HUGGINGFACE_API_KEY"),
		Model:         model,
		AuthHeader:    "Authorization",
		AuthPrefix:    "Bearer ",
		AllowKeyless:  true, // anonymous quota is enough for a last resort
		BuildBody:     buildHuggingFaceBody,
		ParseResponse: parseHuggingFaceResponse,
	}
}

// Body builders

func buildOpenAIBody(cfg *ProviderConfig, req Request) map[string]any {
	messages := []map[string]string{}
	if req.SystemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.SystemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.UserPrompt})

	return map[string]any{
		"model":      cfg.Model,
		"max_tokens": maxTokensOr(req.MaxTokens, 1024),
		"messages":   messages,
	}
}

func buildGeminiBody(cfg *ProviderConfig, req Request) map[string]any {
	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": req.UserPrompt}}},
		},
		"generationConfig": map[string]any{
			"maxOutputTokens": maxTokensOr(req.MaxTokens, 1024),
		},
	}

	if req.SystemPrompt != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": req.SystemPrompt}},
		}
	}

	return body
}

func buildHuggingFaceBody(cfg *ProviderConfig, req Request) map[string]any {
	prompt := req.UserPrompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + req.UserPrompt
	}
	return map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_new_tokens":   maxTokensOr(req.MaxTokens, 500),
			"return_full_text": false,
		},
	}
}

// Response parsers

func parseOpenAIResponse(body []byte) (string, string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", err
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, resp.Model, nil
	}
	return "", resp.Model, nil
}

func parseGeminiResponse(body []byte) (string, string, error) {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		ModelVersion string `json:"modelVersion"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", err
	}
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		return resp.Candidates[0].Content.Parts[0].Text, resp.ModelVersion, nil
	}
	return "", resp.ModelVersion, nil
}

func parseHuggingFaceResponse(body []byte) (string, string, error) {
	// The inference API returns a list of generations.
	var resp []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", err
	}
	if len(resp) == 0 {
		return "", "", fmt.Errorf("empty generation list")
	}
	return resp[0].GeneratedText, "", nil
}

// Helpers

func getEnvOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func maxTokensOr(v, defaultVal int) int {
	if v > 0 {
		return v
	}
	return defaultVal
}

// CreateProviders builds the full provider chain in priority order. Providers
// without credentials are kept in the chain: the orchestrator skips them and
// the status snapshot reports them as no_key.
func CreateProviders() []Provider {
	configs := []*ProviderConfig{
		GeminiConfig(),
		GroqConfig(),
		MistralConfig(),
		OpenRouterConfig(),
		HuggingFaceConfig(),
	}

	providers := make([]Provider, 0, len(configs))
	for _, cfg := range configs {
		p := NewHTTPProvider(cfg)
		providers = append(providers, p)
		// Only log whether a key exists, never the key itself
		logging.Info("provider registered", "name", cfg.Name, "model", cfg.Model,
			"has_api_key", p.HasCredential(), "keyless_ok", cfg.AllowKeyless)
	}
	return providers
}
