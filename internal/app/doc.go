// Package app provides the orchestration layer for the chatlog viewer.
//
// # Overview
//
// This package wires together configuration, logging, preferences, the chatlog
// client, state management and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Components
//
//   - app.go: Run (viewer) and Export (one-shot dump)
//   - poller.go: background goroutine that reloads the chatlog periodically
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml, apply --endpoint
//	       ├─────> logging.New()        zerolog to the log file
//	       ├─────> prefs.Load()         Line count and theme
//	       ├─────> chatlog.NewSource()  HTTP client or file:// export reader
//	       ├─────> state.NewLoader()    Fetch, filter, publish to the Store
//	       ├─────> StartPoller()        Periodic reloads
//	       ├─────> prefs.Watch()        External prefs edits
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Polling Behavior
//
// The poller reloads at the configured interval (default 5 seconds, 0
// disables it). The UI issues its own load at startup, on save and on "r".
// Every load takes a sequence number from the store; a result older than the
// one already applied is dropped, so the newest request always wins.
//
// # Error Handling
//
// Configuration and logging setup failures are fatal and returned from Run.
// Load failures are logged by the loader and shown in the UI; polling
// continues. A missing or broken prefs file degrades to defaults.
package app
