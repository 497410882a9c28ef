// Package logtail reads the last lines of line-oriented files.
//
// Read keeps a ring buffer of maxLines entries while scanning, so memory use
// is O(maxLines) regardless of file size and lines come back oldest first.
// Blank lines and trailing carriage returns are dropped. It backs the
// file-based chatlog source, which tails JSON-lines chat exports:
//
//	lines, err := logtail.Read("/srv/esm/chatlog.json", 100)
//	if err != nil {
//		return err
//	}
package logtail
