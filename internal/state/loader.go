package state

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/five82/chatlog/internal/chatlog"
)

// Loader performs chatlog loads on behalf of both the UI and the poller and
// publishes results to a Store.
type Loader struct {
	client chatlog.Fetcher
	store  *Store
	filter chatlog.FilterOptions
	log    zerolog.Logger
	limit  atomic.Int64
}

// NewLoader wires a fetcher to a store. limit is the initial line count sent
// with each request.
func NewLoader(client chatlog.Fetcher, store *Store, filter chatlog.FilterOptions, log zerolog.Logger, limit int) *Loader {
	l := &Loader{
		client: client,
		store:  store,
		filter: filter,
		log:    log,
	}
	l.SetLimit(limit)
	return l
}

// SetLimit changes the line count used by subsequent loads.
func (l *Loader) SetLimit(n int) {
	l.limit.Store(int64(n))
}

// Limit returns the line count used by the next load.
func (l *Loader) Limit() int {
	return int(l.limit.Load())
}

// Store returns the store results are published to.
func (l *Loader) Store() *Store {
	return l.store
}

// Load fetches the chatlog once and applies the result. The returned error
// is the load failure, if any; a stale result is dropped silently.
func (l *Loader) Load(ctx context.Context) error {
	if l == nil || l.client == nil || l.store == nil {
		return errors.New("loader not configured")
	}
	seq := l.store.Reserve()
	lines := l.Limit()

	l.log.Debug().Uint64("seq", seq).Int("lines", lines).Msg("loading chatlog")

	entries, err := l.client.Fetch(ctx, lines)
	if err != nil {
		evt := l.log.Error().Err(err).Uint64("seq", seq).Int("lines", lines)
		var loadErr *chatlog.LoadError
		if errors.As(err, &loadErr) {
			evt = evt.Str("op", loadErr.Op).Str("url", loadErr.URL)
			if loadErr.Status != 0 {
				evt = evt.Int("status", loadErr.Status)
			}
		}
		evt.Msg("error loading chatlog")
	} else if l.filter.Active() {
		entries = chatlog.Filter(entries, l.filter)
	}

	if !l.store.Apply(seq, entries, err) {
		l.log.Debug().Uint64("seq", seq).Msg("dropped stale chatlog result")
		return err
	}
	if err == nil {
		l.log.Debug().Uint64("seq", seq).Int("entries", len(entries)).Msg("chatlog loaded")
	}
	return err
}
