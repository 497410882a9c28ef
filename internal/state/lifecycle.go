package state

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// Load lifecycle states
const (
	Idle      = "idle"
	Loading   = "loading"
	Displayed = "displayed"
	Failed    = "error"
)

// Load lifecycle events
const (
	EventLoad   = "load"
	EventLoaded = "loaded"
	EventFail   = "fail"
)

// Lifecycle tracks idle → loading → displayed | error for the viewer.
type Lifecycle struct {
	machine *fsm.FSM
}

// NewLifecycle returns a lifecycle in the idle state. onTransition, when
// non-nil, is called after every state change.
func NewLifecycle(onTransition func(from, to, event string)) *Lifecycle {
	callbacks := fsm.Callbacks{}
	if onTransition != nil {
		callbacks["after_event"] = func(_ context.Context, e *fsm.Event) {
			onTransition(e.Src, e.Dst, e.Event)
		}
	}
	return &Lifecycle{
		machine: fsm.NewFSM(
			Idle,
			fsm.Events{
				{Name: EventLoad, Src: []string{Idle, Displayed, Failed}, Dst: Loading},
				{Name: EventLoaded, Src: []string{Loading}, Dst: Displayed},
				{Name: EventFail, Src: []string{Loading}, Dst: Failed},
			},
			callbacks,
		),
	}
}

// Current returns the current state name.
func (l *Lifecycle) Current() string {
	if l == nil || l.machine == nil {
		return Idle
	}
	return l.machine.Current()
}

// Begin moves to loading. Starting a load while one is in flight is allowed
// and leaves the state unchanged.
func (l *Lifecycle) Begin() error {
	if l.Current() == Loading {
		return nil
	}
	return l.fire(EventLoad)
}

// Succeed records a completed load.
func (l *Lifecycle) Succeed() error {
	return l.finish(EventLoaded)
}

// Fail records a failed load.
func (l *Lifecycle) Fail() error {
	return l.finish(EventFail)
}

// finish tolerates results that arrive outside a load (for example from the
// background poller) by passing through loading first.
func (l *Lifecycle) finish(event string) error {
	if l.Current() != Loading {
		if err := l.fire(EventLoad); err != nil {
			return err
		}
	}
	return l.fire(event)
}

func (l *Lifecycle) fire(event string) error {
	if l == nil || l.machine == nil {
		return errors.New("lifecycle not initialised")
	}
	err := l.machine.Event(context.Background(), event)
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}
