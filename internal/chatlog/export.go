package chatlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

const exportTimeLayout = "2006-01-02T15:04:05"

type exportLine struct {
	Time    string `json:"time"`
	Speaker string `json:"speaker"`
	Message string `json:"message"`
}

// Export writes entries to w. The json format emits one object per line,
// the text format one "<time> <speaker>: <message>" line per entry.
func Export(w io.Writer, entries []Entry, format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatText {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		ts := ""
		if t := e.Time(); !t.IsZero() {
			ts = t.Format(exportTimeLayout)
		}
		switch format {
		case FormatJSON:
			if err := enc.Encode(exportLine{Time: ts, Speaker: e.Speaker, Message: e.Message}); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		case FormatText:
			if _, err := fmt.Fprintf(bw, "%s %s: %s\n", ts, e.Speaker, e.Message); err != nil {
				return fmt.Errorf("write entry: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}
