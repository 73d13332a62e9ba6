// Package fetcher pulls the upstream timezones payload and drives the cache
// through the request lifecycle events.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bassista/tzcache/internal/cache"
	"github.com/bassista/tzcache/internal/logger"
	"github.com/bassista/tzcache/internal/state"
	"github.com/bassista/tzcache/internal/timezone"
)

var (
	ErrRefreshInFlight = errors.New("timezones refresh already in flight")
	ErrUpstreamStatus  = errors.New("unexpected upstream status")
	ErrUpstreamPayload = errors.New("invalid upstream payload")
)

// Fetcher refreshes the cache from a Source.
type Fetcher struct {
	source   Source
	store    cache.Dispatcher
	inFlight atomic.Bool
}

func New(source Source, store cache.Dispatcher) *Fetcher {
	return &Fetcher{source: source, store: store}
}

// Refresh dispatches RequestTimezones, then either ReceiveTimezones followed by
// RequestTimezonesSuccess, or RequestTimezonesFailure. Every started request
// ends with exactly one of the two terminal events. Only one Refresh runs at a
// time per Fetcher.
func (f *Fetcher) Refresh(ctx context.Context) (timezone.CacheState, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return timezone.CacheState{}, ErrRefreshInFlight
	}
	defer f.inFlight.Store(false)

	// a requesting flag left behind by a stray event is reset by this request
	f.store.Dispatch(state.RequestTimezones{})

	items, err := f.fetch(ctx)
	if err != nil {
		f.store.Dispatch(state.RequestTimezonesFailure{})
		logger.WithComponent("fetch").Warnf("timezones refresh failed: %v", err)
		return timezone.CacheState{}, err
	}

	f.store.Dispatch(state.ReceiveTimezones{Timezones: items})
	f.store.Dispatch(state.RequestTimezonesSuccess{})
	logger.WithState("fetch", items.Continents(), items.Entries()).Info("timezones refreshed")
	return items, nil
}

func (f *Fetcher) fetch(ctx context.Context) (timezone.CacheState, error) {
	body, err := f.source.Fetch(ctx)
	if err != nil {
		return timezone.CacheState{}, err
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return timezone.CacheState{}, fmt.Errorf("%w: %v", ErrUpstreamPayload, err)
	}
	if _, ok := raw.(map[string]any); !ok {
		return timezone.CacheState{}, fmt.Errorf("%w: expected a JSON object", ErrUpstreamPayload)
	}

	items := timezone.Normalize(raw)
	if dropped := timezone.Dropped(raw, items); dropped > 0 {
		logger.WithComponent("fetch").Debugf("dropped %d malformed or duplicate timezone records", dropped)
	}
	return items, nil
}
