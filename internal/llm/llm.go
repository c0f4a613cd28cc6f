package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

const (
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	defaultOpenAIEndpoint = "https://api.openai.com/v1"
	defaultOllamaEndpoint = "http://localhost:11434"

	defaultGeminiGenerateModel = "gemini-2.5-pro"
	defaultGeminiEditModel     = "gemini-2.5-flash"
	defaultOpenAIModel         = "gpt-4o-mini"
	defaultOllamaModel         = "ministral-3:latest"
)

// Documents beyond this many characters are clipped before being sent for
// suggestions; a 4 chars/token estimate keeps us well inside a 128k window.
const maxSuggestChars = 200_000

const defaultLLMHTTPTimeout = 3 * time.Minute

var (
	// ErrMissingCredential is returned when the selected provider needs an API key
	// and none was found in the environment.
	ErrMissingCredential = errors.New("API key environment variable is not set")
	// ErrEmptyResponse is returned when the backend answered without any text.
	ErrEmptyResponse = errors.New("backend returned an empty response")
)

// Config describes how to build an LLM client.
type Config struct {
	Provider      string
	GenerateModel string
	EditModel     string
	Endpoint      string
	APIKey        string
	HTTPClient    *http.Client
}

// Client is the backend seam used by the assistant. Implementations return
// errors freely; the assistant package decides how to degrade.
type Client interface {
	Generate(ctx context.Context, prompt string, parts []Part) (string, error)
	Rewrite(ctx context.Context, text, instruction string) (string, error)
	Suggest(ctx context.Context, document string) ([]Edit, error)
	Name() string
}

// Part is an attachment forwarded with a generation request. Text carries an
// extracted plain-text rendition for backends that cannot read the raw bytes.
type Part struct {
	Name     string
	MimeType string
	Base64   string
	Text     string
}

// IsImage reports whether the part can be sent as an image to vision models.
func (p Part) IsImage() bool {
	return strings.HasPrefix(p.MimeType, "image/")
}

// Edit is a single structured suggestion returned by the backend.
type Edit struct {
	Find        string `json:"find"`
	ReplaceWith string `json:"replaceWith"`
	Reason      string `json:"reason"`
}

// NewFromEnv fills in defaults for the selected provider and resolves its
// credential from the environment when cfg.APIKey is empty.
func NewFromEnv(cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	httpClient := pickHTTPClient(cfg.HTTPClient)
	switch provider {
	case ProviderGemini:
		key := firstNonEmpty(cfg.APIKey, os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY"))
		if key == "" {
			return nil, fmt.Errorf("gemini: %w (set GEMINI_API_KEY or API_KEY)", ErrMissingCredential)
		}
		return &geminiClient{
			apiKey:        key,
			base:          strings.TrimRight(firstNonEmpty(cfg.Endpoint, defaultGeminiEndpoint), "/"),
			generateModel: firstNonEmpty(cfg.GenerateModel, defaultGeminiGenerateModel),
			editModel:     firstNonEmpty(cfg.EditModel, defaultGeminiEditModel),
			client:        httpClient,
		}, nil
	case ProviderOpenAI:
		key := firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY"), os.Getenv("API_KEY"))
		if key == "" {
			return nil, fmt.Errorf("openai: %w (set OPENAI_API_KEY or API_KEY)", ErrMissingCredential)
		}
		model := firstNonEmpty(cfg.GenerateModel, defaultOpenAIModel)
		return &openAIClient{
			apiKey:        key,
			base:          strings.TrimRight(firstNonEmpty(cfg.Endpoint, defaultOpenAIEndpoint), "/"),
			generateModel: model,
			editModel:     firstNonEmpty(cfg.EditModel, model),
			client:        httpClient,
		}, nil
	case ProviderOllama:
		host := firstNonEmpty(cfg.Endpoint, os.Getenv("OLLAMA_HOST"), defaultOllamaEndpoint)
		model := firstNonEmpty(cfg.GenerateModel, os.Getenv("OLLAMA_MODEL"), defaultOllamaModel)
		return &ollamaClient{
			host:          strings.TrimRight(host, "/"),
			generateModel: model,
			editModel:     firstNonEmpty(cfg.EditModel, model),
			client:        httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Long generations can exceed a minute; callers bound individual requests with ctx.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
