package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/chatlog/internal/chatlog"
	"github.com/five82/chatlog/internal/prefs"
	"github.com/five82/chatlog/internal/state"
)

type stubFetcher struct {
	mu      sync.Mutex
	entries []chatlog.Entry
	err     error
	lines   []int
}

func (f *stubFetcher) Fetch(_ context.Context, lines int) ([]chatlog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, lines)
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *stubFetcher) set(entries []chatlog.Entry, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = entries
	f.err = err
}

func (f *stubFetcher) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.lines...)
}

func makeEntries(n int) []chatlog.Entry {
	entries := make([]chatlog.Entry, n)
	for i := range entries {
		entries[i] = chatlog.Entry{
			Timestamp: float64(1700000000 + i),
			Speaker:   "user",
			Message:   fmt.Sprintf("message %03d", i),
		}
	}
	return entries
}

func newTestModel(t *testing.T, fetcher *stubFetcher, p prefs.Prefs) (Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	loader := state.NewLoader(fetcher, &state.Store{}, chatlog.FilterOptions{}, zerolog.Nop(), p.Limit())
	m := New(Options{
		Loader:    loader,
		Endpoint:  "http://127.0.0.1:8080/chatlog/chatlog.json",
		Prefs:     p,
		PrefsPath: path,
		Logger:    zerolog.Nop(),
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, path
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return model, cmd
}

// load runs one load command synchronously and feeds the result back.
func load(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.loadChatlog()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, scrollToNewestMsg{})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeKeys(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, k)
	}
	return m
}

func messages(entries []chatlog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestLoad_ShowsNewestEntriesUpToLimit(t *testing.T) {
	fetcher := &stubFetcher{entries: makeEntries(150)}
	m, _ := newTestModel(t, fetcher, prefs.Default())

	m = load(t, m)

	require.Len(t, m.entries, 100)
	assert.Equal(t, "message 050", m.entries[0].Message)
	assert.Equal(t, "message 149", m.entries[99].Message)
	assert.Equal(t, []int{100}, fetcher.requested())
	assert.Equal(t, state.Displayed, m.lifecycle.Current())
	assert.Contains(t, m.viewport.View(), "message 149")
}

func TestLoad_FewerEntriesThanLimit(t *testing.T) {
	fetcher := &stubFetcher{entries: makeEntries(3)}
	m, _ := newTestModel(t, fetcher, prefs.Default())

	m = load(t, m)

	assert.Equal(t, []string{"message 000", "message 001", "message 002"}, messages(m.entries))
}

func TestLoad_EmptyResponse(t *testing.T) {
	fetcher := &stubFetcher{entries: []chatlog.Entry{}}
	m, _ := newTestModel(t, fetcher, prefs.Default())

	m = load(t, m)

	assert.Empty(t, m.entries)
	assert.Equal(t, state.Displayed, m.lifecycle.Current())
	assert.Contains(t, m.viewport.View(), "No chat entries")
}

func TestSettingsEdit_TrimsOldestWithoutReload(t *testing.T) {
	fetcher := &stubFetcher{entries: makeEntries(10)}
	m, _ := newTestModel(t, fetcher, prefs.Default())
	m = load(t, m)
	require.Len(t, m.entries, 10)

	backspace := tea.KeyMsg{Type: tea.KeyBackspace}
	m = typeKeys(t, m, runes("s"), backspace, backspace, backspace)
	require.True(t, m.settingsFocused)
	assert.Equal(t, "", m.settings.Value())
	assert.Len(t, m.entries, 10, "empty input means the default limit")

	m = typeKeys(t, m, runes("4"))
	assert.Equal(t, []string{"message 006", "message 007", "message 008", "message 009"}, messages(m.entries))

	// Widening the limit does not bring trimmed entries back.
	m = typeKeys(t, m, runes("0"))
	assert.Equal(t, "40", m.settings.Value())
	assert.Len(t, m.entries, 4)

	assert.Len(t, fetcher.requested(), 1, "editing must not hit the network")
}

func TestSettingsEdit_RejectsNonDigits(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, prefs.Default())

	m = typeKeys(t, m, runes("s"), runes("x"), runes("-"), runes("7"))

	assert.Equal(t, "1007", m.settings.Value())
}

func TestSaveSettings_PersistsAndReloadsWithNewLimit(t *testing.T) {
	fetcher := &stubFetcher{entries: makeEntries(10)}
	m, path := newTestModel(t, fetcher, prefs.Default())
	m = load(t, m)

	backspace := tea.KeyMsg{Type: tea.KeyBackspace}
	m = typeKeys(t, m, runes("s"), backspace, backspace, backspace, runes("5"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.settingsFocused)
	assert.Equal(t, "saved", m.notice)

	stored, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "5", stored.LineCount)
	assert.Equal(t, 5, m.loader.Limit())

	m, _ = update(t, m, cmd())
	assert.Equal(t, []int{100, 5}, fetcher.requested())
	assert.Equal(t, []string{"message 005", "message 006", "message 007", "message 008", "message 009"}, messages(m.entries))
}

func TestSaveSettings_EmptyValueFallsBackToDefault(t *testing.T) {
	fetcher := &stubFetcher{entries: makeEntries(2)}
	m, path := newTestModel(t, fetcher, prefs.Prefs{LineCount: "20"})

	m.settings.SetValue("")
	cmd := m.saveSettings()
	require.NotNil(t, cmd)

	stored, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "100", stored.LineCount)
	assert.Equal(t, prefs.DefaultLineCount, m.loader.Limit())
}

func TestLoadFailure_ShowsSingleErrorIndicator(t *testing.T) {
	fetcher := &stubFetcher{entries: makeEntries(5)}
	m, _ := newTestModel(t, fetcher, prefs.Default())
	m = load(t, m)
	require.Len(t, m.entries, 5)

	fetcher.set(nil, &chatlog.LoadError{Op: "status", URL: "http://x", Status: 500})
	m = load(t, m)

	assert.Empty(t, m.entries)
	assert.True(t, m.loadFailed)
	assert.Equal(t, state.Failed, m.lifecycle.Current())

	view := m.View()
	assert.Equal(t, 1, strings.Count(view, errorMessage))
	assert.NotContains(t, view, "message 004")
	assert.Contains(t, view, "HTTP 500")

	// The next successful load replaces the error.
	fetcher.set(makeEntries(1), nil)
	m = load(t, m)
	assert.False(t, m.loadFailed)
	assert.NotContains(t, m.View(), errorMessage)
}

func TestRender_MessageTextIsLiteral(t *testing.T) {
	fetcher := &stubFetcher{entries: []chatlog.Entry{{
		Timestamp: 1700000000,
		Speaker:   "<i>mallory</i>",
		Message:   "<b>bold</b> \x1b[31mred\x1b[0m \x1b]0;title\x07done",
	}}}
	m, _ := newTestModel(t, fetcher, prefs.Default())
	m = load(t, m)

	view := m.viewport.View()
	assert.Contains(t, view, "<i>mallory</i>")
	assert.Contains(t, view, "<b>bold</b> red done")
	assert.NotContains(t, view, "\x1b]0;")
	assert.NotContains(t, view, "\x07")
}

func TestApplySnapshot_IgnoresOlderResults(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, prefs.Default())

	newer := state.Snapshot{Seq: 2, Entries: makeEntries(2)}
	older := state.Snapshot{Seq: 1, Entries: makeEntries(5)}

	assert.NotNil(t, m.applySnapshot(newer))
	assert.Nil(t, m.applySnapshot(older))
	assert.Len(t, m.entries, 2)
	assert.Equal(t, uint64(2), m.lastSeq)
}

func TestSnapshotTick_PicksUpPollerResults(t *testing.T) {
	fetcher := &stubFetcher{entries: makeEntries(3)}
	m, _ := newTestModel(t, fetcher, prefs.Default())

	require.NoError(t, m.loader.Load(context.Background()))
	m, cmd := update(t, m, snapshotTickMsg{})

	assert.NotNil(t, cmd)
	assert.Len(t, m.entries, 3)
	assert.Equal(t, state.Displayed, m.lifecycle.Current())
}

func TestSearch_FindsAndCyclesMatches(t *testing.T) {
	fetcher := &stubFetcher{entries: []chatlog.Entry{
		{Timestamp: 1, Speaker: "alice", Message: "hello"},
		{Timestamp: 2, Speaker: "bob", Message: "hi alice"},
		{Timestamp: 3, Speaker: "carol", Message: "nothing"},
	}}
	m, _ := newTestModel(t, fetcher, prefs.Default())
	m = load(t, m)

	m = typeKeys(t, m, runes("/"), runes("A"), runes("l"), runes("i"), runes("c"), runes("e"))
	require.True(t, m.search.active)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.search.active)
	assert.Equal(t, []int{0, 1}, m.search.matches)
	assert.Equal(t, 1, m.activeMatchEntry(), "starts at the newest match")
	assert.False(t, m.follow)
	assert.Contains(t, m.renderStatusBar(), "2/2")

	m = typeKeys(t, m, runes("n"))
	assert.Equal(t, 0, m.activeMatchEntry())
	m = typeKeys(t, m, runes("N"))
	assert.Equal(t, 1, m.activeMatchEntry())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.search.regex)
	assert.Empty(t, m.search.matches)
}

func TestSearch_InvalidPatternStaysOpen(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, prefs.Default())

	m = typeKeys(t, m, runes("/"), runes("("))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.search.active)
	assert.True(t, m.search.invalid)
}

func TestFollowMode(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{entries: makeEntries(50)}, prefs.Default())
	m = load(t, m)
	require.True(t, m.follow)

	m = typeKeys(t, m, runes("g"))
	assert.False(t, m.follow)
	assert.True(t, m.viewport.AtTop())

	m = typeKeys(t, m, runes("G"))
	assert.True(t, m.follow)
	assert.True(t, m.viewport.AtBottom())
}

func TestPrefsChanged_AdoptsExternalEdits(t *testing.T) {
	fetcher := &stubFetcher{entries: makeEntries(10)}
	m, _ := newTestModel(t, fetcher, prefs.Default())
	m = load(t, m)

	m, cmd := update(t, m, prefsChangedMsg(prefs.Prefs{LineCount: "3", Theme: "Slate"}))

	assert.NotNil(t, cmd)
	assert.Equal(t, "3", m.settings.Value())
	assert.Equal(t, 3, m.loader.Limit())
	assert.Equal(t, "Slate", m.theme.Name)
	assert.Len(t, m.entries, 3)
}

func TestPrefsChanged_SameLimitDoesNotReload(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, prefs.Default())

	cmd := m.handlePrefsChanged(prefs.Prefs{LineCount: "100", Theme: "Kanagawa"})

	assert.Nil(t, cmd)
	assert.Equal(t, "Kanagawa", m.theme.Name)
}

func TestCycleTheme_Persists(t *testing.T) {
	m, path := newTestModel(t, &stubFetcher{}, prefs.Default())

	m = typeKeys(t, m, runes("T"))

	assert.Equal(t, "Kanagawa", m.theme.Name)
	stored, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", stored.Theme)
	assert.Equal(t, "100", stored.LineCount)
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, &stubFetcher{}, prefs.Default())

	m = typeKeys(t, m, runes("?"))
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = typeKeys(t, m, runes("x"))
	assert.False(t, m.showHelp)
}

func TestView_NotReady(t *testing.T) {
	m := New(Options{Logger: zerolog.Nop()})
	assert.Equal(t, "Loading...", m.View())
	assert.Nil(t, m.loadChatlog())
}
