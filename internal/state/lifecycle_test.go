package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_StartsIdle(t *testing.T) {
	l := NewLifecycle(nil)
	assert.Equal(t, Idle, l.Current())

	var nilLifecycle *Lifecycle
	assert.Equal(t, Idle, nilLifecycle.Current())
}

func TestLifecycle_LoadSucceeds(t *testing.T) {
	var transitions []string
	l := NewLifecycle(func(from, to, event string) {
		transitions = append(transitions, from+">"+to+":"+event)
	})

	require.NoError(t, l.Begin())
	assert.Equal(t, Loading, l.Current())

	require.NoError(t, l.Succeed())
	assert.Equal(t, Displayed, l.Current())

	assert.Equal(t, []string{"idle>loading:load", "loading>displayed:loaded"}, transitions)
}

func TestLifecycle_LoadFails(t *testing.T) {
	l := NewLifecycle(nil)

	require.NoError(t, l.Begin())
	require.NoError(t, l.Fail())
	assert.Equal(t, Failed, l.Current())

	// Error state can reload
	require.NoError(t, l.Begin())
	assert.Equal(t, Loading, l.Current())
	require.NoError(t, l.Succeed())
	assert.Equal(t, Displayed, l.Current())
}

func TestLifecycle_BeginWhileLoadingIsNoop(t *testing.T) {
	l := NewLifecycle(nil)
	require.NoError(t, l.Begin())
	require.NoError(t, l.Begin())
	assert.Equal(t, Loading, l.Current())
}

func TestLifecycle_ResultWithoutBegin(t *testing.T) {
	l := NewLifecycle(nil)
	require.NoError(t, l.Succeed())
	assert.Equal(t, Displayed, l.Current())

	require.NoError(t, l.Fail())
	assert.Equal(t, Failed, l.Current())
}
