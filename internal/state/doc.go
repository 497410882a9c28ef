// Package state provides thread-safe state management for the chatlog viewer.
//
// # Overview
//
// Two pieces live here:
//
//   - Store: the latest load result shared between the background poller and
//     the UI.
//   - Lifecycle: the viewer's load state machine (looplab/fsm).
//
// # Store
//
//	Producer (poller / UI cmd):      Consumer (UI):
//	┌────────────────────┐          ┌──────────────────┐
//	│ seq := Reserve()   │          │                  │
//	│ client.Fetch()     │          │                  │
//	│ Apply(seq, ...)    │─────────→│ Snapshot()       │
//	└────────────────────┘  (mutex) └──────────────────┘
//
// Loads may overlap: the poller and a user-triggered reload can both be in
// flight. Each load reserves a sequence number before it starts and Apply
// drops results older than the newest applied one, so the display always
// reflects the most recently issued load that has completed.
//
// A failed load clears the stored entries because the viewer replaces its
// list with a single error message.
//
// # Lifecycle
//
//	      load            loaded
//	idle ──────→ loading ────────→ displayed
//	               │  ↑                │
//	          fail │  └──── load ──────┤
//	               ↓                   │
//	             error ←───────────────┘ (via loading)
//
// Begin is idempotent while loading. Succeed and Fail pass through loading
// when called from another state, which happens when the poller delivers a
// result the UI did not request.
package state
