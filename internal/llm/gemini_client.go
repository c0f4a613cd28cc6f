package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type geminiClient struct {
	apiKey        string
	base          string
	generateModel string
	editModel     string
	client        *http.Client
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s / %s)", c.generateModel, c.editModel)
}

func (c *geminiClient) Generate(ctx context.Context, prompt string, parts []Part) (string, error) {
	content := geminiContent{Role: "user", Parts: []geminiPart{{Text: prompt}}}
	for _, part := range parts {
		content.Parts = append(content.Parts, geminiPart{
			InlineData: &geminiInlineData{MimeType: part.MimeType, Data: part.Base64},
		})
	}
	return c.generateContent(ctx, c.generateModel, geminiRequest{
		SystemInstruction: systemContent(generateSystemInstruction),
		Contents:          []geminiContent{content},
	})
}

func (c *geminiClient) Rewrite(ctx context.Context, text, instruction string) (string, error) {
	out, err := c.generateContent(ctx, c.editModel, geminiRequest{
		SystemInstruction: systemContent(rewriteSystemInstruction),
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: buildRewritePrompt(text, instruction)}}}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *geminiClient) Suggest(ctx context.Context, document string) ([]Edit, error) {
	raw, err := c.generateContent(ctx, c.editModel, geminiRequest{
		SystemInstruction: systemContent(suggestSystemInstruction),
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: buildSuggestPrompt(document)}}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   geminiEditSchema(),
		},
	})
	if err != nil {
		return nil, err
	}
	return ParseEdits(raw)
}

func (c *geminiClient) generateContent(ctx context.Context, model string, payload geminiRequest) (string, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.base, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gemini API error: %s (%s)", resp.Status, excerpt(body))
	}

	var parsed struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if parsed.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked the prompt: %s", parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}

func systemContent(instruction string) *geminiContent {
	return &geminiContent{Parts: []geminiPart{{Text: instruction}}}
}

// geminiEditSchema uses the OpenAPI subset Gemini expects (upper-case types).
func geminiEditSchema() map[string]any {
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"find":        map[string]any{"type": "STRING", "description": findDescription},
				"replaceWith": map[string]any{"type": "STRING", "description": replaceWithDescription},
				"reason":      map[string]any{"type": "STRING", "description": reasonDescription},
			},
			"required": []string{"find", "replaceWith", "reason"},
		},
	}
}

func excerpt(body []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "…"
	}
	return text
}
