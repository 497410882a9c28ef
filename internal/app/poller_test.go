package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/chatlog/internal/chatlog"
	"github.com/five82/chatlog/internal/state"
)

type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) Fetch(context.Context, int) ([]chatlog.Entry, error) {
	f.calls.Add(1)
	return []chatlog.Entry{{Speaker: "a"}}, nil
}

func TestStartPoller_LoadsOnInterval(t *testing.T) {
	fetcher := &countingFetcher{}
	store := &state.Store{}
	loader := state.NewLoader(fetcher, store, chatlog.FilterOptions{}, zerolog.Nop(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, loader, 20*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for fetcher.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want >= 2", fetcher.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if store.Snapshot().Seq == 0 {
		t.Fatalf("store not updated by poller")
	}
}

func TestStartPoller_StopsOnCancel(t *testing.T) {
	fetcher := &countingFetcher{}
	loader := state.NewLoader(fetcher, &state.Store{}, chatlog.FilterOptions{}, zerolog.Nop(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	StartPoller(ctx, loader, 10*time.Millisecond)
	time.Sleep(35 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	after := fetcher.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := fetcher.calls.Load(); got != after {
		t.Fatalf("poller kept running after cancel: %d -> %d calls", after, got)
	}
}

func TestStartPoller_DisabledInterval(t *testing.T) {
	fetcher := &countingFetcher{}
	loader := state.NewLoader(fetcher, &state.Store{}, chatlog.FilterOptions{}, zerolog.Nop(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, loader, 0)
	StartPoller(ctx, nil, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if got := fetcher.calls.Load(); got != 0 {
		t.Fatalf("disabled poller made %d calls", got)
	}
}
