package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	generateSystemInstruction = "You are an expert writer and creative partner. Write a compelling piece based on the user's prompt and provided files. " +
		"The output should be well-structured, engaging, and ready for a user to start editing. " +
		"Respond only with the generated text, without any preamble or explanation."
	rewriteSystemInstruction = "You are a writing assistant. Your task is to rewrite the provided text based on the user's instruction. " +
		"Respond ONLY with the rewritten text, without any additional comments, formatting, or explanations."
	suggestSystemInstruction = "You are an expert editor. Your task is to analyze the user's writing and provide helpful, non-intrusive suggestions. " +
		"Only suggest changes that significantly improve the text. " +
		"For each suggestion, provide the exact text to be replaced, the new text, and a brief, one-sentence reason for the change."
)

const (
	findDescription        = "The exact, verbatim phrase or sentence from the original text to be replaced."
	replaceWithDescription = "The suggested new phrase or sentence."
	reasonDescription      = "A brief, one-sentence explanation for why this change is an improvement."
)

func clipText(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func buildRewritePrompt(text, instruction string) string {
	return fmt.Sprintf("Based on the instruction \"%s\", rewrite the following text:\n\n---\n%s\n---", instruction, text)
}

func buildSuggestPrompt(document string) string {
	return "Analyze the following text and provide suggestions for improvement. Focus on clarity, conciseness, and impact. \n\n" +
		"TEXT:\n" + clipText(document, maxSuggestChars)
}

// buildTextOnlyPrompt inlines the extracted text of non-image attachments for
// backends that only accept plain prompts.
func buildTextOnlyPrompt(prompt string, parts []Part) string {
	var b strings.Builder
	b.WriteString(prompt)
	for _, part := range parts {
		if part.IsImage() || strings.TrimSpace(part.Text) == "" {
			continue
		}
		b.WriteString("\n\n--- Attached file: ")
		b.WriteString(part.Name)
		b.WriteString(" ---\n")
		b.WriteString(part.Text)
	}
	return b.String()
}

// editItemsSchema is the JSON Schema for the suggestion array used by the
// OpenAI and Ollama structured-output modes.
func editItemsSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"find":        map[string]any{"type": "string", "description": findDescription},
				"replaceWith": map[string]any{"type": "string", "description": replaceWithDescription},
				"reason":      map[string]any{"type": "string", "description": reasonDescription},
			},
			"required":             []string{"find", "replaceWith", "reason"},
			"additionalProperties": false,
		},
	}
}

// ParseEdits decodes a suggestion payload. It accepts a bare array, an object
// wrapping the array under "suggestions", or either of those embedded in prose.
func ParseEdits(raw string) ([]Edit, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyResponse
	}
	candidates := []string{raw}
	if start := strings.Index(raw, "["); start >= 0 {
		if end := strings.LastIndex(raw, "]"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}
	for _, candidate := range candidates {
		var arr []Edit
		if err := json.Unmarshal([]byte(candidate), &arr); err == nil {
			return sanitizeEdits(arr), nil
		}
		var wrapper struct {
			Suggestions *[]Edit `json:"suggestions"`
		}
		if err := json.Unmarshal([]byte(candidate), &wrapper); err == nil && wrapper.Suggestions != nil {
			return sanitizeEdits(*wrapper.Suggestions), nil
		}
	}
	return nil, fmt.Errorf("unable to parse suggestion payload")
}

func sanitizeEdits(edits []Edit) []Edit {
	result := make([]Edit, 0, len(edits))
	for _, edit := range edits {
		// find is matched verbatim against the document, so it is never trimmed.
		if strings.TrimSpace(edit.Find) == "" {
			continue
		}
		result = append(result, edit)
	}
	return result
}
