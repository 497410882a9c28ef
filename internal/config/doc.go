// Package config handles loading and parsing the chatlog configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/chatlog/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/chatlog/config.toml
//   - Endpoint: 127.0.0.1:8080 (path /chatlog/chatlog.json is implied)
//   - Poll interval: 5 seconds
//   - Request timeout: 5 seconds
//   - Log file: ~/.local/state/chatlog/chatlog.log
//   - Log level/format: info / console
//
// # TOML Format
//
//	endpoint = "http://game.example:8080/chatlog/chatlog.json"
//	poll_interval = 5       # seconds, 0 disables periodic reloads
//	request_timeout = 5     # seconds
//	log_file = "~/.local/state/chatlog/chatlog.log"
//	log_level = "info"      # trace, debug, info, warn, error
//	log_format = "console"  # console or json
//	include_speakers = []   # glob patterns; when set, only matches are shown
//	exclude_speakers = ["Server", "bot-*"]
//
// # Error Handling
//
// Load returns errors only when the file exists but cannot be read or
// parsed, or when poll_interval is negative. A missing file is not an error.
// Paths starting with ~ are expanded against the user's home directory.
//
// The line-count preference is not part of this file; it lives in the prefs
// package so the viewer can rewrite it without touching user configuration.
package config
