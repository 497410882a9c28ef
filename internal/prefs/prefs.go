// Package prefs handles chatlog viewer preference persistence.
// Preferences are stored in ~/.config/chatlog/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the viewer. LineCount is kept as decimal
// text so a hand-edited or corrupted value degrades instead of failing.
type Prefs struct {
	LineCount string `toml:"line_count"`
	Theme     string `toml:"theme"`
}

const (
	// DefaultLineCount applies when the stored line count is absent or invalid.
	DefaultLineCount = 100

	defaultPrefsPath = "~/.config/chatlog/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{LineCount: strconv.Itoa(DefaultLineCount), Theme: defaultTheme}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Limit returns the parsed line count.
func (p Prefs) Limit() int {
	return ParseLineCount(p.LineCount)
}

// ParseLineCount converts stored or typed text into a line limit. Empty,
// non-numeric, zero and negative values yield DefaultLineCount.
func ParseLineCount(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return DefaultLineCount
	}
	return n
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return loadLoose(bytes), nil // Graceful degradation
	}

	return normalize(prefs), nil
}

// loadLoose recovers what it can from a file whose line_count was written as
// a bare number or another non-string type.
func loadLoose(data []byte) Prefs {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default()
	}
	p := Default()
	if theme, ok := raw["theme"].(string); ok {
		p.Theme = theme
	}
	switch v := raw["line_count"].(type) {
	case string:
		p.LineCount = v
	case int64:
		p.LineCount = strconv.FormatInt(v, 10)
	case float64:
		p.LineCount = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return normalize(p)
}

func normalize(p Prefs) Prefs {
	p.LineCount = strconv.Itoa(ParseLineCount(p.LineCount))
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	return p
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// ResolvePath expands path, or the default location when path is empty.
func ResolvePath(path string) (string, error) {
	return resolvePath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
