package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	if got := pickHTTPClient(custom); got != custom {
		t.Fatalf("expected custom client to be returned")
	}
}

func TestPickHTTPClientUsesLongerTimeout(t *testing.T) {
	client := pickHTTPClient(nil)
	if client.Timeout != defaultLLMHTTPTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultLLMHTTPTimeout, client.Timeout)
	}
}

func TestNewFromEnvRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	_, err := NewFromEnv(Config{Provider: ProviderGemini})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestNewFromEnvFallsBackToAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "secret")

	client, err := NewFromEnv(Config{})
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	gemini, ok := client.(*geminiClient)
	if !ok {
		t.Fatalf("expected gemini client by default, got %T", client)
	}
	if gemini.apiKey != "secret" {
		t.Fatalf("api key not resolved from API_KEY: %q", gemini.apiKey)
	}
	if gemini.generateModel != defaultGeminiGenerateModel || gemini.editModel != defaultGeminiEditModel {
		t.Fatalf("unexpected default models: %s / %s", gemini.generateModel, gemini.editModel)
	}
}

func TestGeminiGenerateOverrideKeepsEditModel(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")

	client, err := NewFromEnv(Config{GenerateModel: "gemini-ultra"})
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	gemini := client.(*geminiClient)
	if gemini.generateModel != "gemini-ultra" {
		t.Fatalf("generate model not overridden: %s", gemini.generateModel)
	}
	if gemini.editModel != defaultGeminiEditModel {
		t.Fatalf("rewrites and suggestions should stay on %s, got %s", defaultGeminiEditModel, gemini.editModel)
	}
}

func TestNewFromEnvRequiresOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("API_KEY", "")

	_, err := NewFromEnv(Config{Provider: "OpenAI"})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestNewFromEnvOllamaNeedsNoKey(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434/")
	t.Setenv("OLLAMA_MODEL", "")

	client, err := NewFromEnv(Config{Provider: ProviderOllama, EditModel: "small"})
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	ollama := client.(*ollamaClient)
	if ollama.host != "http://gpu-box:11434" {
		t.Fatalf("host not trimmed: %q", ollama.host)
	}
	if ollama.generateModel != defaultOllamaModel || ollama.editModel != "small" {
		t.Fatalf("unexpected models: %s / %s", ollama.generateModel, ollama.editModel)
	}
}

func TestNewFromEnvRejectsUnknownProvider(t *testing.T) {
	if _, err := NewFromEnv(Config{Provider: "claude-on-a-toaster"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
