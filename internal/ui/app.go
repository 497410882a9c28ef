package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/chatlog/internal/chatlog"
	"github.com/five82/chatlog/internal/prefs"
	"github.com/five82/chatlog/internal/state"
)

const (
	// scrollDelay matches the short settle time before jumping to the newest entry.
	scrollDelay = 50 * time.Millisecond

	defaultSnapshotTick = 250 * time.Millisecond
	defaultWidth        = 80
	defaultHeight       = 24
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Loader       *state.Loader
	Endpoint     string
	Prefs        prefs.Prefs
	PrefsPath    string
	PrefsUpdates <-chan prefs.Prefs
	Logger       zerolog.Logger

	// SnapshotTick controls how often results from the background poller
	// are picked up. Zero uses 250ms.
	SnapshotTick time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx          context.Context
	loader       *state.Loader
	store        *state.Store
	lifecycle    *state.Lifecycle
	log          zerolog.Logger
	endpoint     string
	prefs        prefs.Prefs
	prefsPath    string
	prefsUpdates <-chan prefs.Prefs
	snapshotTick time.Duration

	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Display state. entries is what is currently rendered, after trimming.
	entries     []chatlog.Entry
	loadFailed  bool
	offline     bool
	lastSeq     uint64
	lastUpdated time.Time

	viewport     viewport.Model
	follow       bool
	entryOffsets []int // first content line of each rendered entry

	settings        textinput.Model
	settingsFocused bool
	notice          string

	search searchState

	showHelp bool
}

// New creates the viewer model. The stored line-count preference is placed
// into the settings input.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.SnapshotTick
	if tick <= 0 {
		tick = defaultSnapshotTick
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	var store *state.Store
	if opts.Loader != nil {
		store = opts.Loader.Store()
	}

	m := Model{
		ctx:          ctx,
		loader:       opts.Loader,
		store:        store,
		log:          opts.Logger,
		endpoint:     opts.Endpoint,
		prefs:        opts.Prefs,
		prefsPath:    prefsPath,
		prefsUpdates: opts.PrefsUpdates,
		snapshotTick: tick,
		theme:        GetTheme(opts.Prefs.Theme),
		keys:         DefaultKeyMap(),
		width:        defaultWidth,
		height:       defaultHeight,
		follow:       true,
		search:       newSearchState(),
	}
	log := opts.Logger
	m.lifecycle = state.NewLifecycle(func(from, to, event string) {
		log.Debug().Str("from", from).Str("to", to).Str("event", event).Msg("load state changed")
	})
	m.viewport = viewport.New(m.viewportSize())
	m.settings = newSettingsInput()
	m.loadSettings()
	m.renderEntries()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadChatlog(),
		snapshotTickCmd(m.snapshotTick),
		waitForPrefs(m.prefsUpdates),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport.Width, m.viewport.Height = m.viewportSize()
		m.renderEntries()
		if m.follow {
			m.viewport.GotoBottom()
		}
		return m, nil

	case loadedMsg:
		return m, m.applySnapshot(msg.snapshot)

	case snapshotTickMsg:
		var cmd tea.Cmd
		if m.store != nil {
			cmd = m.applySnapshot(m.store.Snapshot())
		}
		return m, tea.Batch(cmd, snapshotTickCmd(m.snapshotTick))

	case scrollToNewestMsg:
		if m.follow {
			m.viewport.GotoBottom()
		}
		return m, nil

	case prefsChangedMsg:
		cmd := m.handlePrefsChanged(prefs.Prefs(msg))
		return m, tea.Batch(cmd, waitForPrefs(m.prefsUpdates))
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey routes keyboard input to the focused control.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.settingsFocused {
		return m.handleSettingsKey(msg)
	}
	if m.search.active {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadChatlog()

	case key.Matches(msg, m.keys.EditSettings):
		m.focusSettings()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.SaveSettings):
		return m, m.saveSettings()
	}

	return m.handleViewportKey(msg)
}

// handleViewportKey scrolls the chatlog. Any manual scroll away from the
// newest entry turns follow mode off.
func (m Model) handleViewportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.follow = !m.follow
		if m.follow {
			m.viewport.GotoBottom()
		}

	case key.Matches(msg, m.keys.Search):
		m.openSearch()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NextMatch):
		m.nextSearchMatch()

	case key.Matches(msg, m.keys.PrevMatch):
		m.previousSearchMatch()

	case key.Matches(msg, m.keys.Escape):
		if m.search.regex != nil {
			m.clearSearch()
			m.renderEntries()
		}

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.follow = true

	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)
		m.follow = m.viewport.AtBottom()

	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)
		m.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
		m.follow = m.viewport.AtBottom()

	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()
		m.follow = false

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
		m.follow = m.viewport.AtBottom()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
		m.follow = false
	}
	return m, nil
}

// cycleTheme switches to the next theme and persists the choice.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save theme failed")
	}
	m.renderEntries()
}

// viewportSize returns the chatlog pane dimensions for the current window:
// header, settings bar and status bar take one row each, the box border two.
func (m Model) viewportSize() (int, int) {
	return max(m.width-2, 1), max(m.height-5, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderChatlogBox())
	b.WriteString("\n")
	b.WriteString(m.renderSettingsBar())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// Messages

type loadedMsg struct {
	snapshot state.Snapshot
	err      error
}

type snapshotTickMsg time.Time

type scrollToNewestMsg struct{}

type prefsChangedMsg prefs.Prefs

// Commands

func snapshotTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return snapshotTickMsg(t)
	})
}

func scrollToNewestCmd() tea.Cmd {
	return tea.Tick(scrollDelay, func(time.Time) tea.Msg {
		return scrollToNewestMsg{}
	})
}

func waitForPrefs(updates <-chan prefs.Prefs) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return nil
		}
		return prefsChangedMsg(p)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
