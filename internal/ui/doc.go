// Package ui provides the terminal chatlog viewer.
//
// # Architecture Overview
//
// The viewer is a Bubble Tea program. All model mutation happens in Update;
// network loads run as tea.Cmd goroutines through a state.Loader and report
// back as messages. Results from the background poller are picked up on a
// short snapshot tick from the shared state.Store. Each result carries a
// sequence number and only results newer than the one on screen are shown.
//
// # Package Structure
//
//   - app.go: Model, Options, Init/Update/View and Run
//   - chatlog.go: loading, trimming and rendering of entries
//   - settings.go: the line-count input, save and external prefs changes
//   - search.go: regex search over speaker and message with n/N navigation
//   - status.go: header, settings bar and status bar
//   - help.go: help overlay
//   - keys.go: key bindings
//   - theme.go: color themes and Lipgloss styles
//
// # Line Count
//
// The settings input holds the line-count preference as typed. Every edit
// trims the rendered list from the oldest end without a network call. Saving
// persists the raw text to the prefs file, updates the limit sent with each
// request and reloads. Empty, zero or non-numeric values mean 100.
//
// # Rendering
//
// Each entry renders as a block: local timestamp and speaker on one line,
// the message indented below. Text from the endpoint is stripped of terminal
// control sequences before display so it can never drive the terminal. A
// failed load replaces the list with a single "Error loading chatlog." line.
//
// # Keyboard Shortcuts
//
//   - s/tab: edit line count; enter or ctrl+s: save
//   - r: reload
//   - j/k, g/G, ctrl+d/ctrl+u: scroll; G resumes follow mode
//   - f/Space: toggle follow mode
//   - /: search; n/N: next/previous match; esc: clear
//   - T: cycle theme
//   - h/?: help
//   - q/ctrl+c: quit
package ui
