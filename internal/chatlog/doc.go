// Package chatlog provides the chat log entry model and the HTTP client used
// to read it.
//
// # Wire format
//
// The endpoint answers GET <endpoint>?lines=N with a JSON array ordered
// oldest first:
//
//	[{"timestamp": 1700000000, "speaker": "Alice", "message": "hi"}, ...]
//
// timestamp is epoch seconds and may carry a fraction.
//
// # Errors
//
// Every Fetch failure is a *LoadError and matches ErrLoadFailure with
// errors.Is. The Op field tells request, status and decode failures apart for
// logging; callers treat them identically.
//
// # Helpers
//
//   - Trim keeps the newest N entries.
//   - Filter applies speaker include/exclude glob patterns.
//   - Sanitize neutralises terminal escape sequences in untrusted text.
//   - Export writes entries as JSON lines or plain text.
package chatlog
