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

type ollamaClient struct {
	host          string
	generateModel string
	editModel     string
	client        *http.Client
}

type ollamaRequest struct {
	Model  string   `json:"model"`
	System string   `json:"system,omitempty"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Format any      `json:"format,omitempty"`
	Stream bool     `json:"stream"`
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.generateModel)
}

func (c *ollamaClient) Generate(ctx context.Context, prompt string, parts []Part) (string, error) {
	req := ollamaRequest{
		Model:  c.generateModel,
		System: generateSystemInstruction,
		Prompt: buildTextOnlyPrompt(prompt, parts),
	}
	for _, image := range imageParts(parts) {
		req.Images = append(req.Images, image.Base64)
	}
	return c.generate(ctx, req)
}

func (c *ollamaClient) Rewrite(ctx context.Context, text, instruction string) (string, error) {
	out, err := c.generate(ctx, ollamaRequest{
		Model:  c.editModel,
		System: rewriteSystemInstruction,
		Prompt: buildRewritePrompt(text, instruction),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *ollamaClient) Suggest(ctx context.Context, document string) ([]Edit, error) {
	raw, err := c.generate(ctx, ollamaRequest{
		Model:  c.editModel,
		System: suggestSystemInstruction,
		Prompt: buildSuggestPrompt(document),
		Format: editItemsSchema(),
	})
	if err != nil {
		return nil, err
	}
	return ParseEdits(raw)
}

func (c *ollamaClient) generate(ctx context.Context, payload ollamaRequest) (string, error) {
	payload.Stream = false
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

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
		return "", fmt.Errorf("ollama API error: %s (%s)", resp.Status, excerpt(body))
	}

	var parsed struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if parsed.Response == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Response, nil
}
