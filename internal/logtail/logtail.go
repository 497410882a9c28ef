package logtail

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxLineBytes is the longest line Read accepts.
const MaxLineBytes = 1024 * 1024

// Read returns at most maxLines non-blank lines from the end of the file at
// path, oldest first. A non-positive maxLines returns every line. Errors from
// opening the file wrap the os error, so errors.Is(err, os.ErrNotExist) works.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	lines, err := Tail(file, maxLines)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// Tail is Read for an arbitrary reader.
func Tail(r io.Reader, maxLines int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			if line, ok := clean(scanner.Text()); ok {
				lines = append(lines, line)
			}
		}
		return lines, scanner.Err()
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		line, ok := clean(scanner.Text())
		if !ok {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

func clean(line string) (string, bool) {
	line = strings.TrimRight(line, "\r")
	return line, strings.TrimSpace(line) != ""
}
