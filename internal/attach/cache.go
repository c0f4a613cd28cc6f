package attach

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

const (
	cacheEnvVar         = "INKWELL_CACHE_DIR"
	cacheSubdir         = "inkwell/attachments"
	cacheTTL            = 24 * time.Hour
	partialSuffix       = ".part"
	metaSuffix          = ".meta"
	defaultFetchTimeout = 90 * time.Second
)

// downloadCache keeps remote attachments on disk so re-attaching the same URL
// does not hit the network again within cacheTTL.
type downloadCache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

func (c *downloadCache) ensure() error {
	if c.client == nil {
		c.client = &http.Client{Timeout: defaultFetchTimeout}
	}
	if c.dir != "" {
		return nil
	}
	dir := os.Getenv(cacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "inkwell-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	c.dir = dir
	return nil
}

// Fetch returns a local path holding the body of rawURL.
func (c *downloadCache) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := c.ensure(); err != nil {
		return "", err
	}
	bodyPath, metaPath, partialPath := c.pathsFor(cacheKey(rawURL))

	info, _ := os.Stat(bodyPath)
	if info != nil && info.Size() > 0 && time.Since(info.ModTime()) < cacheTTL {
		return bodyPath, nil
	}

	meta, _ := readMeta(metaPath)
	p, err := c.download(ctx, rawURL, bodyPath, metaPath, partialPath, meta, info)
	if err == nil {
		return p, nil
	}
	if info != nil && info.Size() > 0 {
		return bodyPath, nil
	}
	return "", err
}

func (c *downloadCache) download(ctx context.Context, rawURL, bodyPath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			meta.CachedAt = time.Now().UTC()
			_ = writeMeta(metaPath, meta)
			// Bump the mtime so the freshness window restarts.
			now := time.Now()
			_ = os.Chtimes(bodyPath, now, now)
			return bodyPath, nil
		}
		return c.download(ctx, rawURL, bodyPath, metaPath, partialPath, cacheMeta{}, nil)
	case http.StatusOK:
		return c.saveBody(resp, bodyPath, metaPath, partialPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("attachment download failed: %s (%s)", resp.Status, string(body))
	}
}

func (c *downloadCache) saveBody(resp *http.Response, bodyPath, metaPath, partialPath string) (string, error) {
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	// One byte past the limit is enough to know Load will reject it.
	written, err := io.Copy(file, io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if written > MaxSize {
		os.Remove(partialPath)
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, resp.Request.URL, MaxSize)
	}
	if err := os.Rename(partialPath, bodyPath); err != nil {
		return "", err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         written,
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return bodyPath, nil
}

func (c *downloadCache) pathsFor(key string) (string, string, string) {
	return filepath.Join(c.dir, key), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func cacheKey(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// remoteName is the last path segment of rawURL, or its host.
func remoteName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if base := path.Base(parsed.Path); base != "" && base != "/" && base != "." {
		return base
	}
	return parsed.Host
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
