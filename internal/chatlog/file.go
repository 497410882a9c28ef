package chatlog

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/chatlog/internal/logtail"
)

const fileScheme = "file://"

// Source is a Fetcher that can describe where it reads from.
type Source interface {
	Fetcher
	Endpoint() string
}

// NewSource returns a FileSource for file:// endpoints and an HTTP Client for
// everything else. Options only apply to the HTTP client.
func NewSource(endpoint string, opts ...Option) (Source, error) {
	trimmed := strings.TrimSpace(endpoint)
	if path, ok := strings.CutPrefix(trimmed, fileScheme); ok {
		src, err := NewFileSource(path)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	client, err := NewClient(trimmed, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// FileSource reads entries from a JSON-lines chat export, one object per
// line. Lines may carry an epoch "timestamp" or a local "time" in the export
// layout, so files written by Export can be read back.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the file at path.
func NewFileSource(path string) (*FileSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("chatlog file path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve chatlog file: %w", err)
	}
	return &FileSource{path: abs}, nil
}

// Endpoint returns the file URL.
func (s *FileSource) Endpoint() string {
	if s == nil {
		return ""
	}
	return fileScheme + s.path
}

var _ Source = (*FileSource)(nil)

type fileLine struct {
	Timestamp *float64 `json:"timestamp"`
	Time      string   `json:"time"`
	Speaker   string   `json:"speaker"`
	Message   string   `json:"message"`
}

// Fetch returns the last lines entries of the file; lines <= 0 reads all.
func (s *FileSource) Fetch(ctx context.Context, lines int) ([]Entry, error) {
	if s == nil {
		return nil, &LoadError{Op: "read", Err: fmt.Errorf("file source is nil")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Op: "read", URL: s.Endpoint(), Err: err}
	}

	raw, err := logtail.Read(s.path, lines)
	if err != nil {
		return nil, &LoadError{Op: "read", URL: s.Endpoint(), Err: err}
	}

	entries := make([]Entry, 0, len(raw))
	for i, line := range raw {
		var fl fileLine
		if err := json.Unmarshal([]byte(line), &fl); err != nil {
			return nil, &LoadError{Op: "decode", URL: s.Endpoint(), Err: fmt.Errorf("line %d: %w", i+1, err)}
		}
		entry := Entry{Speaker: fl.Speaker, Message: fl.Message}
		switch {
		case fl.Timestamp != nil:
			entry.Timestamp = *fl.Timestamp
		case fl.Time != "":
			t, err := time.ParseInLocation(exportTimeLayout, fl.Time, time.Local)
			if err != nil {
				return nil, &LoadError{Op: "decode", URL: s.Endpoint(), Err: fmt.Errorf("line %d: %w", i+1, err)}
			}
			entry.Timestamp = float64(t.Unix())
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
