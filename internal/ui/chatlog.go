package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/chatlog/internal/chatlog"
	"github.com/five82/chatlog/internal/prefs"
	"github.com/five82/chatlog/internal/state"
)

const (
	errorMessage     = "Error loading chatlog."
	timestampLayout  = "2006-01-02 15:04:05"
	messageIndent    = "  "
	missingTimestamp = "--"
)

// loadChatlog starts a fetch with the current line-count preference. The
// result arrives as a loadedMsg.
func (m *Model) loadChatlog() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	if err := m.lifecycle.Begin(); err != nil {
		m.log.Warn().Err(err).Msg("load state transition failed")
	}
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		err := loader.Load(ctx)
		return loadedMsg{snapshot: loader.Store().Snapshot(), err: err}
	}
}

// applySnapshot replaces the display with a newer load result. Results at or
// below the last shown sequence number are ignored.
func (m *Model) applySnapshot(snap state.Snapshot) tea.Cmd {
	if snap.Seq == 0 {
		return nil
	}
	if snap.Seq <= m.lastSeq {
		m.settleLifecycle()
		return nil
	}

	m.lastSeq = snap.Seq
	m.lastUpdated = snap.LastUpdated
	m.offline = snap.IsOffline()

	if snap.LastError != nil {
		m.entries = nil
		m.loadFailed = true
		if err := m.lifecycle.Fail(); err != nil {
			m.log.Warn().Err(err).Msg("load state transition failed")
		}
		m.renderEntries()
		return nil
	}

	m.loadFailed = false
	m.entries = snap.Entries
	m.applyLineCountLimit()
	if err := m.lifecycle.Succeed(); err != nil {
		m.log.Warn().Err(err).Msg("load state transition failed")
	}
	return scrollToNewestCmd()
}

// settleLifecycle ends a load whose own result was superseded by one that is
// already on screen.
func (m *Model) settleLifecycle() {
	if m.lifecycle.Current() != state.Loading {
		return
	}
	if m.loadFailed {
		_ = m.lifecycle.Fail()
		return
	}
	_ = m.lifecycle.Succeed()
}

// applyLineCountLimit trims the oldest rendered entries so that at most the
// limit typed into the settings input remain. Removed entries only come back
// with the next load.
func (m *Model) applyLineCountLimit() {
	limit := prefs.ParseLineCount(m.settings.Value())
	if len(m.entries) > limit {
		m.entries = chatlog.Trim(m.entries, limit)
	}
	m.renderEntries()
}

// renderEntries rebuilds the viewport content from the current entries.
func (m *Model) renderEntries() {
	styles := m.theme.Styles()
	m.findSearchMatches()
	m.entryOffsets = m.entryOffsets[:0]

	switch {
	case m.loadFailed:
		m.viewport.SetContent(styles.DangerText.Render(errorMessage))
		return
	case len(m.entries) == 0 && m.lastSeq == 0:
		m.viewport.SetContent(styles.MutedText.Render("Loading chatlog..."))
		return
	case len(m.entries) == 0:
		m.viewport.SetContent(styles.MutedText.Render("No chat entries"))
		return
	}

	activeMatch := m.activeMatchEntry()
	matchSet := make(map[int]bool, len(m.search.matches))
	for _, idx := range m.search.matches {
		matchSet[idx] = true
	}

	wrapWidth := max(m.viewport.Width-len(messageIndent), 10)
	lines := make([]string, 0, len(m.entries)*3)
	for i, entry := range m.entries {
		if i > 0 {
			lines = append(lines, "")
		}
		m.entryOffsets = append(m.entryOffsets, len(lines))
		lines = append(lines, m.renderEntryHeader(entry, styles, i == activeMatch, matchSet[i]))
		for _, line := range wrapMessage(entry.Message, wrapWidth) {
			lines = append(lines, messageIndent+styles.Text.Render(line))
		}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) renderEntryHeader(entry chatlog.Entry, styles Styles, active, match bool) string {
	stamp := missingTimestamp
	if ts := entry.Time(); !ts.IsZero() {
		stamp = ts.Format(timestampLayout)
	}
	speaker := chatlog.Sanitize(entry.Speaker)
	if speaker == "" {
		speaker = "(unknown)"
	}
	speaker = strings.ReplaceAll(speaker, "\n", " ")

	if active {
		return styles.Match.Render(stamp + "  " + speaker)
	}
	speakerStyle := styles.SpeakerStyle(speaker)
	if match {
		speakerStyle = speakerStyle.Underline(true)
	}
	return styles.Timestamp.Render(stamp) + "  " + speakerStyle.Render(speaker)
}

// wrapMessage sanitizes a message and wraps it to width.
func wrapMessage(message string, width int) []string {
	clean := chatlog.Sanitize(message)
	if clean == "" {
		return []string{""}
	}
	return strings.Split(ansi.Wrap(clean, width, " "), "\n")
}

// renderChatlogBox frames the viewport.
func (m Model) renderChatlogBox() string {
	border := m.theme.Border
	if !m.settingsFocused && !m.search.active {
		border = m.theme.BorderFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Render(m.viewport.View())
}
