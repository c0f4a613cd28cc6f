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

type openAIClient struct {
	apiKey        string
	base          string
	generateModel string
	editModel     string
	client        *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.generateModel)
}

func (c *openAIClient) Generate(ctx context.Context, prompt string, parts []Part) (string, error) {
	text := buildTextOnlyPrompt(prompt, parts)
	var content any = text
	images := imageParts(parts)
	if len(images) > 0 {
		items := []map[string]any{{"type": "text", "text": text}}
		for _, image := range images {
			items = append(items, map[string]any{
				"type":      "image_url",
				"image_url": map[string]string{"url": "data:" + image.MimeType + ";base64," + image.Base64},
			})
		}
		content = items
	}
	return c.chat(ctx, c.generateModel, generateSystemInstruction, content, nil)
}

func (c *openAIClient) Rewrite(ctx context.Context, text, instruction string) (string, error) {
	out, err := c.chat(ctx, c.editModel, rewriteSystemInstruction, buildRewritePrompt(text, instruction), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *openAIClient) Suggest(ctx context.Context, document string) ([]Edit, error) {
	// Strict structured outputs require an object at the root.
	format := map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "suggestions",
			"strict": true,
			"schema": map[string]any{
				"type":                 "object",
				"properties":           map[string]any{"suggestions": editItemsSchema()},
				"required":             []string{"suggestions"},
				"additionalProperties": false,
			},
		},
	}
	raw, err := c.chat(ctx, c.editModel, suggestSystemInstruction, buildSuggestPrompt(document), format)
	if err != nil {
		return nil, err
	}
	return ParseEdits(raw)
}

func (c *openAIClient) chat(ctx context.Context, model, system string, content any, responseFormat map[string]any) (string, error) {
	payload := map[string]any{
		"model": model,
		"messages": []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: content},
		},
	}
	if responseFormat != nil {
		payload["response_format"] = responseFormat
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.base)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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
		return "", fmt.Errorf("openai API error: %s (%s)", resp.Status, excerpt(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}

func imageParts(parts []Part) []Part {
	var images []Part
	for _, part := range parts {
		if part.IsImage() && part.Base64 != "" {
			images = append(images, part)
		}
	}
	return images
}
