package chatlog

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/gobwas/glob"
)

// Entry mirrors one record of the chatlog JSON array.
type Entry struct {
	Timestamp float64 `json:"timestamp"`
	Speaker   string  `json:"speaker"`
	Message   string  `json:"message"`
}

// maxTimestamp is the largest epoch-seconds value representable as a
// time.Time with nanosecond precision (year 2262).
const maxTimestamp = math.MaxInt64 / 1e9

// Time converts the epoch-seconds timestamp to local time. Zero, negative,
// non-finite and out-of-range values yield the zero time.
func (e Entry) Time() time.Time {
	if e.Timestamp <= 0 || e.Timestamp > maxTimestamp || math.IsNaN(e.Timestamp) {
		return time.Time{}
	}
	sec, frac := math.Modf(e.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9)).In(time.Local)
}

// Trim returns the newest limit entries, dropping the oldest from the front.
// A non-positive limit leaves entries untouched.
func Trim(entries []Entry, limit int) []Entry {
	if limit <= 0 {
		return entries
	}
	if overflow := len(entries) - limit; overflow > 0 {
		return append([]Entry(nil), entries[overflow:]...)
	}
	return entries
}

// FilterOptions selects entries by speaker. Each value is a glob pattern
// ("Server*", "bot-?"); a plain name matches exactly. Include takes
// precedence.
type FilterOptions struct {
	IncludeSpeakers []string
	ExcludeSpeakers []string
}

// Active reports whether any speaker filter is configured.
func (f FilterOptions) Active() bool {
	return len(nonEmpty(f.IncludeSpeakers)) > 0 || len(nonEmpty(f.ExcludeSpeakers)) > 0
}

// Filter applies speaker include/exclude patterns, preserving order.
func Filter(entries []Entry, opts FilterOptions) []Entry {
	include := compilePatterns(opts.IncludeSpeakers)
	exclude := compilePatterns(opts.ExcludeSpeakers)
	if len(include) == 0 && len(exclude) == 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		speaker := strings.TrimSpace(e.Speaker)
		if len(include) > 0 {
			if matchAny(include, speaker) {
				out = append(out, e)
			}
			continue
		}
		if !matchAny(exclude, speaker) {
			out = append(out, e)
		}
	}
	return out
}

// ValidatePatterns reports the first speaker pattern that does not compile.
func ValidatePatterns(patterns []string) error {
	for _, p := range nonEmpty(patterns) {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid speaker pattern %q: %w", p, err)
		}
	}
	return nil
}

// Sanitize makes untrusted text safe to print on a terminal. Escape
// sequences are stripped and remaining control characters dropped, except
// newlines. Tabs become spaces.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t':
			b.WriteString("    ")
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			// drop C0/C1 controls
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// compilePatterns compiles speaker globs. A pattern that fails to compile
// is matched literally.
func compilePatterns(patterns []string) []glob.Glob {
	var out []glob.Glob
	for _, p := range nonEmpty(patterns) {
		g, err := glob.Compile(p)
		if err != nil {
			g = glob.MustCompile(glob.QuoteMeta(p))
		}
		out = append(out, g)
	}
	return out
}

func matchAny(patterns []glob.Glob, s string) bool {
	for _, g := range patterns {
		if g.Match(s) {
			return true
		}
	}
	return false
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
