package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/chatlog/internal/chatlog"
)

// Snapshot represents the latest chatlog load visible to the UI.
type Snapshot struct {
	Entries             []chatlog.Entry
	Seq                 uint64
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the endpoint has been unreachable for multiple loads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent loads. Every load reserves a sequence number
// before it starts; a result older than the newest applied one is dropped,
// so a slow request can never overwrite a newer display.
type Store struct {
	mu       sync.RWMutex
	next     uint64
	snapshot Snapshot
}

// Reserve returns the sequence number for a new load.
func (s *Store) Reserve() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Apply records the outcome of load seq and reports whether it was kept.
// When err is non-nil the entries are cleared, since a failed load replaces
// the display with an error.
func (s *Store) Apply(seq uint64, entries []chatlog.Entry, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.snapshot.Seq {
		return false
	}
	if seq > s.next {
		s.next = seq
	}
	s.snapshot.Seq = seq
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.Entries = nil
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Entries = cloneEntries(entries)
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Entries = cloneEntries(s.snapshot.Entries)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneEntries(entries []chatlog.Entry) []chatlog.Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]chatlog.Entry, len(entries))
	copy(dup, entries)
	return dup
}
