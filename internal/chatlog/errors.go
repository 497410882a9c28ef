package chatlog

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadFailure is matched by every error returned from Client.Fetch.
	ErrLoadFailure = errors.New("chatlog load failed")

	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// LoadError describes a failed chatlog load.
type LoadError struct {
	Op     string // request, status or decode
	URL    string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s %s: returned status %d", e.Op, e.URL, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: failed", e.Op, e.URL)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrLoadFailure) match any LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailure
}
