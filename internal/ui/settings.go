package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/chatlog/internal/prefs"
)

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = strconv.Itoa(prefs.DefaultLineCount)
	ti.CharLimit = 6
	ti.Width = 7
	return ti
}

// loadSettings puts the stored line-count preference into the input.
func (m *Model) loadSettings() {
	m.settings.SetValue(m.prefs.LineCount)
}

func (m *Model) focusSettings() {
	m.settingsFocused = true
	m.notice = ""
	m.settings.Focus()
	m.settings.CursorEnd()
}

func (m *Model) blurSettings() {
	m.settingsFocused = false
	m.settings.Blur()
}

// handleSettingsKey edits the line-count input. Only digits are accepted and
// every edit re-applies the trim without touching the network.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.SaveSettings):
		m.blurSettings()
		return m, m.saveSettings()

	case key.Matches(msg, m.keys.Escape), msg.String() == "tab":
		m.blurSettings()
		return m, nil
	}

	if msg.Type == tea.KeyRunes && !onlyDigits(msg.Runes) {
		return m, nil
	}

	before := m.settings.Value()
	var cmd tea.Cmd
	m.settings, cmd = m.settings.Update(msg)
	if m.settings.Value() != before {
		m.applyLineCountLimit()
	}
	return m, cmd
}

// saveSettings persists the input value as typed, re-applies the trim and
// reloads so the new limit is also used as the query parameter.
func (m *Model) saveSettings() tea.Cmd {
	raw := strings.TrimSpace(m.settings.Value())
	m.prefs.LineCount = raw
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Error().Err(err).Str("path", m.prefsPath).Msg("save settings failed")
		m.notice = "save failed"
	} else {
		m.log.Info().Str("line_count", raw).Msg("settings saved")
		m.notice = "saved"
	}

	if m.loader != nil {
		m.loader.SetLimit(prefs.ParseLineCount(raw))
	}
	m.applyLineCountLimit()
	return m.loadChatlog()
}

// handlePrefsChanged adopts preferences written by another session. A changed
// line count triggers a reload.
func (m *Model) handlePrefsChanged(p prefs.Prefs) tea.Cmd {
	m.prefs = p
	m.theme = GetTheme(p.Theme)
	if !m.settingsFocused {
		m.settings.SetValue(p.LineCount)
	}

	limit := p.Limit()
	reload := m.loader != nil && m.loader.Limit() != limit
	if m.loader != nil {
		m.loader.SetLimit(limit)
	}
	m.applyLineCountLimit()
	if !reload {
		return nil
	}
	m.log.Debug().Int("lines", limit).Msg("line count changed externally")
	return m.loadChatlog()
}

func onlyDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(runes) > 0
}
