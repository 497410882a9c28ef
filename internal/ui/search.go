package ui

import (
	"regexp"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchState holds the chatlog search.
type searchState struct {
	active   bool
	input    textinput.Model
	query    string
	regex    *regexp.Regexp
	invalid  bool
	matches  []int // entry indices
	matchIdx int
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "Search chatlog..."
	ti.CharLimit = 100
	return searchState{input: ti}
}

func (m *Model) openSearch() {
	m.search.active = true
	m.search.invalid = false
	m.search.input.SetValue("")
	m.search.input.Focus()
}

func (m *Model) closeSearchInput() {
	m.search.active = false
	m.search.input.Blur()
}

// handleSearchInput handles keyboard input while typing a search.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		query := m.search.input.Value()
		if query == "" {
			m.closeSearchInput()
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			m.search.invalid = true
			return m, nil
		}
		m.search.regex = re
		m.search.query = query
		m.closeSearchInput()

		m.renderEntries()
		if n := len(m.search.matches); n > 0 {
			// Start from the newest match.
			m.search.matchIdx = n - 1
			m.renderEntries()
			m.scrollToSearchMatch()
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.closeSearchInput()
		m.search.input.SetValue("")
		return m, nil
	}

	m.search.invalid = false
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

func (m *Model) clearSearch() {
	m.search.regex = nil
	m.search.query = ""
	m.search.invalid = false
	m.search.matches = nil
	m.search.matchIdx = 0
}

// findSearchMatches collects entries whose speaker or message matches.
func (m *Model) findSearchMatches() {
	m.search.matches = m.search.matches[:0]
	if m.search.regex == nil {
		return
	}
	for i, entry := range m.entries {
		if m.search.regex.MatchString(entry.Speaker) || m.search.regex.MatchString(entry.Message) {
			m.search.matches = append(m.search.matches, i)
		}
	}
	if m.search.matchIdx >= len(m.search.matches) {
		m.search.matchIdx = max(len(m.search.matches)-1, 0)
	}
}

// activeMatchEntry returns the entry index of the current match, or -1.
func (m *Model) activeMatchEntry() int {
	if m.search.matchIdx < len(m.search.matches) {
		return m.search.matches[m.search.matchIdx]
	}
	return -1
}

func (m *Model) nextSearchMatch() {
	n := len(m.search.matches)
	if n == 0 {
		return
	}
	m.search.matchIdx = (m.search.matchIdx + 1) % n
	m.renderEntries()
	m.scrollToSearchMatch()
}

func (m *Model) previousSearchMatch() {
	n := len(m.search.matches)
	if n == 0 {
		return
	}
	m.search.matchIdx = (m.search.matchIdx - 1 + n) % n
	m.renderEntries()
	m.scrollToSearchMatch()
}

// scrollToSearchMatch centers the current match and leaves follow mode.
func (m *Model) scrollToSearchMatch() {
	entry := m.activeMatchEntry()
	if entry < 0 || entry >= len(m.entryOffsets) {
		return
	}
	m.follow = false
	m.viewport.SetYOffset(max(m.entryOffsets[entry]-m.viewport.Height/2, 0))
}
