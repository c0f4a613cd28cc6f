// Package attach turns files on disk (or behind a URL) into attachments the
// completion backends can consume.
package attach

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/csheth/inkwell/internal/llm"
)

// MaxSize is the largest attachment accepted, matching the inline-data limit
// of the hosted backends.
const MaxSize = 20 << 20

var ErrTooLarge = errors.New("attachment too large")

// File is an immutable attachment. Text holds extracted plain text for PDFs
// and text files and is empty otherwise.
type File struct {
	Name     string
	MimeType string
	Base64   string
	Text     string
	Size     int64
}

// Part converts the attachment to the backend representation.
func (f File) Part() llm.Part {
	return llm.Part{
		Name:     f.Name,
		MimeType: f.MimeType,
		Base64:   f.Base64,
		Text:     f.Text,
	}
}

// Parts converts a slice of attachments.
func Parts(files []File) []llm.Part {
	if len(files) == 0 {
		return nil
	}
	parts := make([]llm.Part, 0, len(files))
	for _, f := range files {
		parts = append(parts, f.Part())
	}
	return parts
}

// Loader resolves local paths and http(s) references.
type Loader struct {
	cache *downloadCache
}

// NewLoader builds a Loader. client may be nil.
func NewLoader(client *http.Client) *Loader {
	return &Loader{cache: &downloadCache{client: client}}
}

// Load resolves ref, downloading it first when it is a URL.
func (l *Loader) Load(ctx context.Context, ref string) (File, error) {
	ref = strings.TrimSpace(ref)
	if !isRemote(ref) {
		return Load(expandHome(ref))
	}
	path, err := l.cache.Fetch(ctx, ref)
	if err != nil {
		return File{}, err
	}
	file, err := Load(path)
	if err != nil {
		return File{}, err
	}
	file.Name = remoteName(ref)
	if ext := filepath.Ext(file.Name); ext != "" {
		if byExt := mimeFromExtension(ext); byExt != "" {
			file.MimeType = byExt
		}
	}
	return file, nil
}

// Load reads a local file and prepares it for upload.
func Load(path string) (File, error) {
	if strings.TrimSpace(path) == "" {
		return File{}, errors.New("empty attachment path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxSize {
		return File{}, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, filepath.Base(path), info.Size(), MaxSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	file := File{
		Name:     filepath.Base(path),
		MimeType: detectMimeType(path, data),
		Base64:   base64.StdEncoding.EncodeToString(data),
		Size:     int64(len(data)),
	}
	switch {
	case file.MimeType == "application/pdf":
		text, err := extractPDFText(path)
		if err != nil {
			log.Printf("[attach] pdf text extraction failed for %s: %v", file.Name, err)
		}
		file.Text = condense(text, MaxTextRunes, true)
	case strings.HasPrefix(file.MimeType, "text/"), isTextLike(file.MimeType):
		if utf8.Valid(data) {
			file.Text = condense(string(data), MaxTextRunes, false)
		}
	}
	return file, nil
}

func detectMimeType(path string, data []byte) string {
	if byExt := mimeFromExtension(filepath.Ext(path)); byExt != "" {
		return byExt
	}
	sniffed := http.DetectContentType(data)
	if semi := strings.IndexByte(sniffed, ';'); semi >= 0 {
		sniffed = sniffed[:semi]
	}
	return strings.TrimSpace(sniffed)
}

var extraTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".csv":      "text/csv",
}

func mimeFromExtension(ext string) string {
	ext = strings.ToLower(ext)
	if ext == "" {
		return ""
	}
	if known, ok := extraTypes[ext]; ok {
		return known
	}
	byExt := mime.TypeByExtension(ext)
	if semi := strings.IndexByte(byExt, ';'); semi >= 0 {
		byExt = byExt[:semi]
	}
	return strings.TrimSpace(byExt)
}

func isTextLike(mimeType string) bool {
	switch mimeType {
	case "application/json", "application/xml", "application/x-yaml", "application/yaml":
		return true
	}
	return false
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
