package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIGenerateAttachesImagesAsDataURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Model != "gpt-test" {
			t.Fatalf("unexpected model: %s", payload.Model)
		}
		user := string(payload.Messages[1].Content)
		if !strings.Contains(user, "data:image/png;base64,iVBOR") {
			t.Fatalf("image not sent as data url: %s", user)
		}
		if !strings.Contains(user, "meeting notes") {
			t.Fatalf("text attachment not inlined: %s", user)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"A draft."}}]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "sk-test", base: server.URL, generateModel: "gpt-test", editModel: "gpt-test", client: server.Client()}
	out, err := client.Generate(context.Background(), "Write it", []Part{
		{Name: "chart.png", MimeType: "image/png", Base64: "iVBOR"},
		{Name: "notes.txt", MimeType: "text/plain", Text: "meeting notes"},
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "A draft." {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestOpenAISuggestUsesStrictSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ResponseFormat struct {
				Type       string `json:"type"`
				JSONSchema struct {
					Strict bool `json:"strict"`
				} `json:"json_schema"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.ResponseFormat.Type != "json_schema" || !payload.ResponseFormat.JSONSchema.Strict {
			t.Fatalf("expected strict json_schema, got %#v", payload.ResponseFormat)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"suggestions\":[{\"find\":\"utilize\",\"replaceWith\":\"use\",\"reason\":\"Plainer.\"}]}"}}]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "k", base: server.URL, generateModel: "m", editModel: "m", client: server.Client()}
	edits, err := client.Suggest(context.Background(), "We utilize tools.")
	if err != nil {
		t.Fatalf("suggest failed: %v", err)
	}
	if len(edits) != 1 || edits[0].ReplaceWith != "use" {
		t.Fatalf("unexpected edits: %#v", edits)
	}
}
