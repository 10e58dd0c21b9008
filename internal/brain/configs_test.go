package brain

import "testing"

func TestParseOpenAIResponse(t *testing.T) {
	body := `{"model":"llama-3.3-70b-versatile","choices":[{"message":{"content":"hello"}}]}`
	content, model, err := parseOpenAIResponse([]byte(body))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if content != "hello" {
		t.Errorf("expected content %q, got %q", "hello", content)
	}
	if model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected model %q", model)
	}
}

func TestParseOpenAIResponseNoChoices(t *testing.T) {
	content, _, err := parseOpenAIResponse([]byte(`{"choices":[]}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if content != "" {
		t.Errorf("expected empty content, got %q", content)
	}
}

func TestParseGeminiResponse(t *testing.T) {
	body := `{"modelVersion":"gemini-2.0-flash","candidates":[{"content":{"parts":[{"text":"hi"}]}}]}`
	content, model, err := parseGeminiResponse([]byte(body))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if content != "hi" {
		t.Errorf("expected content %q, got %q", "hi", content)
	}
	if model != "gemini-2.0-flash" {
		t.Errorf("unexpected model %q", model)
	}
}

func TestParseHuggingFaceResponse(t *testing.T) {
	content, _, err := parseHuggingFaceResponse([]byte(`[{"generated_text":"output"}]`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if content != "output" {
		t.Errorf("expected content %q, got %q", "output", content)
	}

	if _, _, err := parseHuggingFaceResponse([]byte(`[]`)); err == nil {
		t.Error("expected error on empty generation list")
	}
}

func TestBuildOpenAIBody(t *testing.T) {
	cfg := &ProviderConfig{Model: "m"}
	body := buildOpenAIBody(cfg, Request{SystemPrompt: "sys", UserPrompt: "usr"})

	messages, ok := body["messages"].([]map[string]string)
	if !ok {
		t.Fatalf("unexpected messages type %T", body["messages"])
	}
	if len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(messages))
	}
	if messages[0]["role"] != "system" || messages[0]["content"] != "sys" {
		t.Errorf("unexpected system message: %v", messages[0])
	}
	if messages[1]["role"] != "user" || messages[1]["content"] != "usr" {
		t.Errorf("unexpected user message: %v", messages[1])
	}
	if body["max_tokens"] != 1024 {
		t.Errorf("expected default max_tokens 1024, got %v", body["max_tokens"])
	}
}

func TestBuildHuggingFaceBodyJoinsPrompts(t *testing.T) {
	cfg := &ProviderConfig{}
	body := buildHuggingFaceBody(cfg, Request{SystemPrompt: "sys", UserPrompt: "usr"})
	if body["inputs"] != "sys\n\nusr" {
		t.Errorf("expected joined prompt, got %v", body["inputs"])
	}
}

func TestProviderPriorityOrder(t *testing.T) {
	providers := CreateProviders()
	want := []string{"gemini", "groq", "mistral", "openrouter", "huggingface"}
	if len(providers) != len(want) {
		t.Fatalf("expected %d providers, got %d", len(want), len(providers))
	}
	for i, name := range want {
		if providers[i].Name() != name {
			t.Errorf("position %d: expected %s, got %s", i, name, providers[i].Name())
		}
	}
}

func TestHuggingFaceKeylessAvailable(t *testing.T) {
	t.Setenv("HUGGINGFACE_API_KEY", "")
	p := NewHTTPProvider(HuggingFaceConfig())
	if !p.Available() {
		t.Error("expected huggingface to be available without a key")
	}

	t.Setenv("GROQ_API_KEY", "")
	if NewHTTPProvider(GroqConfig()).Available() {
		t.Error("expected groq to be unavailable without a key")
	}
}
