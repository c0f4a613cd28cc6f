package attach

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTextFile(t *testing.T) {
	path := writeFile(t, "notes.md", []byte("# Outline\nfirst point"))

	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.Name != "notes.md" {
		t.Fatalf("unexpected name %q", file.Name)
	}
	if file.MimeType != "text/markdown" {
		t.Fatalf("unexpected mime type %q", file.MimeType)
	}
	if file.Text != "# Outline\nfirst point" {
		t.Fatalf("unexpected text %q", file.Text)
	}
	decoded, err := base64.StdEncoding.DecodeString(file.Base64)
	if err != nil || string(decoded) != "# Outline\nfirst point" {
		t.Fatalf("payload did not round trip: %q %v", decoded, err)
	}
	part := file.Part()
	if part.Name != file.Name || part.Base64 != file.Base64 || part.Text != file.Text {
		t.Fatalf("part mismatch: %+v", part)
	}
}

func TestLoadSniffsContentWithoutExtension(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	path := writeFile(t, "scan", png)

	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.MimeType != "image/png" {
		t.Fatalf("expected image/png, got %q", file.MimeType)
	}
	if file.Text != "" {
		t.Fatalf("images should carry no text, got %q", file.Text)
	}
	if !file.Part().IsImage() {
		t.Fatalf("expected image part")
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.Truncate(MaxSize + 1); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	f.Close()

	_, err = Load(path)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestLoadKeepsUnreadablePDF(t *testing.T) {
	path := writeFile(t, "draft.pdf", []byte("not really a pdf"))

	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.MimeType != "application/pdf" {
		t.Fatalf("unexpected mime type %q", file.MimeType)
	}
	if file.Text != "" {
		t.Fatalf("expected no extracted text, got %q", file.Text)
	}
	if file.Base64 == "" {
		t.Fatalf("payload should still be attached")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for directory")
	}
}

func TestParts(t *testing.T) {
	if Parts(nil) != nil {
		t.Fatalf("expected nil parts for no files")
	}
	parts := Parts([]File{{Name: "a.txt"}, {Name: "b.png"}})
	if len(parts) != 2 || parts[1].Name != "b.png" {
		t.Fatalf("unexpected parts %+v", parts)
	}
}

func TestLoaderFetchesRemoteOnce(t *testing.T) {
	t.Setenv(cacheEnvVar, t.TempDir())

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("remote brief"))
	}))
	t.Cleanup(server.Close)

	loader := NewLoader(server.Client())
	ctx := context.Background()

	file, err := loader.Load(ctx, server.URL+"/docs/brief.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.Name != "brief.txt" || file.MimeType != "text/plain" || file.Text != "remote brief" {
		t.Fatalf("unexpected file %+v", file)
	}
	if _, err := loader.Load(ctx, server.URL+"/docs/brief.txt"); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected one download, got %d", hits)
	}
}

func TestDownloadCacheConditionalRefresh(t *testing.T) {
	t.Setenv(cacheEnvVar, t.TempDir())

	var conditional int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			conditional++
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("body"))
	}))
	t.Cleanup(server.Close)

	cache := &downloadCache{client: server.Client()}
	ctx := context.Background()
	path, err := cache.Fetch(ctx, server.URL+"/a.txt")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	stale := time.Now().Add(-2 * cacheTTL)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	again, err := cache.Fetch(ctx, server.URL+"/a.txt")
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if again != path || conditional != 1 {
		t.Fatalf("expected conditional revalidation, path %s vs %s, conditional %d", again, path, conditional)
	}
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > time.Minute {
		t.Fatalf("expected refreshed mtime: %v", err)
	}
}

func TestDownloadCacheFallsBackToStaleCopy(t *testing.T) {
	t.Setenv(cacheEnvVar, t.TempDir())

	fail := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("body"))
	}))
	t.Cleanup(server.Close)

	cache := &downloadCache{client: server.Client()}
	ctx := context.Background()
	path, err := cache.Fetch(ctx, server.URL+"/a.txt")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	stale := time.Now().Add(-2 * cacheTTL)
	_ = os.Chtimes(path, stale, stale)
	fail = true

	again, err := cache.Fetch(ctx, server.URL+"/a.txt")
	if err != nil || again != path {
		t.Fatalf("expected stale copy, got %s, %v", again, err)
	}

	if _, err := cache.Fetch(ctx, server.URL+"/never-cached.txt"); err == nil {
		t.Fatalf("expected error without a cached copy")
	}
}
