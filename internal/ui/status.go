package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/chatlog/internal/chatlog"
	"github.com/five82/chatlog/internal/prefs"
	"github.com/five82/chatlog/internal/state"
)

// renderHeader renders the title line: app name, endpoint and follow state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{
		styles.WarningText.Bold(true).Render("chatlog"),
		styles.MutedText.Render(truncateMiddle(m.endpoint, max(m.width/2, 20))),
	}
	if m.follow {
		parts = append(parts, styles.SuccessText.Render("● follow"))
	} else {
		parts = append(parts, styles.FaintText.Render("○ follow"))
	}
	if m.offline {
		parts = append(parts, styles.DangerText.Render("OFFLINE"))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderSettingsBar renders the line-count input with its save hint.
func (m Model) renderSettingsBar() string {
	styles := m.theme.Styles()

	label := styles.MutedText.Render("Lines:")
	if m.settingsFocused {
		label = styles.AccentText.Bold(true).Render("Lines:")
	}
	parts := []string{label + " " + m.settings.View()}

	if m.settingsFocused {
		parts = append(parts, styles.FaintText.Render("enter save • esc done"))
	} else {
		parts = append(parts, styles.FaintText.Render("s edit • ctrl+s save"))
	}
	if m.notice != "" {
		noticeStyle := styles.SuccessText
		if m.notice != "saved" {
			noticeStyle = styles.DangerText
		}
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	if m.search.active {
		parts = append(parts, styles.AccentText.Render("search: ")+m.search.input.View())
		if m.search.invalid {
			parts = append(parts, styles.DangerText.Render("invalid pattern"))
		}
	}
	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderStatusBar renders lifecycle state, counts and search status.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles()

	if m.search.regex != nil && !m.search.active {
		if len(m.search.matches) == 0 {
			return styles.Footer.Width(m.width).Render(
				styles.DangerText.Render("Pattern not found: " + m.search.query))
		}
		return styles.Footer.Width(m.width).Render(
			styles.AccentText.Render("/"+m.search.query) +
				styles.FaintText.Render(" - ") +
				styles.WarningText.Render(fmt.Sprintf("%d/%d", m.search.matchIdx+1, len(m.search.matches))) +
				styles.FaintText.Render(" - n next, N previous, esc clear"))
	}

	var parts []string
	parts = append(parts, m.renderLoadState(styles))
	parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%d entries", len(m.entries))))
	parts = append(parts, styles.MutedText.Render(fmt.Sprintf("limit %d", prefs.ParseLineCount(m.settings.Value()))))
	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, styles.FaintText.Render(ts))
	}
	parts = append(parts, styles.FaintText.Render("T "+m.theme.Name))
	parts = append(parts, styles.FaintText.Render("? help"))

	sep := " " + styles.FaintText.Render("•") + " "
	return styles.Footer.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) renderLoadState(styles Styles) string {
	current := m.lifecycle.Current()
	switch current {
	case state.Loading:
		return styles.WarningText.Render(current)
	case state.Failed:
		label := current
		if m.store != nil {
			if kind := classifyLoadError(m.store.Snapshot().LastError); kind != "" {
				label += " (" + kind + ")"
			}
		}
		return styles.DangerText.Render(label)
	case state.Displayed:
		return styles.SuccessText.Render(current)
	default:
		return styles.MutedText.Render(current)
	}
}

// formatTimestamp formats the last update time with a relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	since := time.Since(m.lastUpdated)
	ts := m.lastUpdated.Format("15:04:05")

	switch {
	case since < time.Minute:
		ts += " (now)"
	case since < time.Hour:
		ts += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		ts += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return ts
}

// classifyLoadError returns a short description of a load failure.
func classifyLoadError(err error) string {
	if err == nil {
		return ""
	}
	var loadErr *chatlog.LoadError
	if errors.As(err, &loadErr) {
		switch loadErr.Op {
		case "status":
			return fmt.Sprintf("HTTP %d", loadErr.Status)
		case "decode":
			return "bad json"
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "offline"
	case strings.Contains(msg, "no such host"):
		return "host not found"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "timeout"
	default:
		return ""
	}
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	if limit <= 5 {
		return s[:limit]
	}
	endLen := (limit - 3) * 2 / 3
	startLen := limit - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
