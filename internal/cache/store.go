package cache

import (
	"sync"

	"github.com/bassista/tzcache/internal/logger"
	"github.com/bassista/tzcache/internal/state"
	"github.com/bassista/tzcache/internal/timezone"
)

// Store holds the root state and is the only place events are applied.
type Store struct {
	mu         sync.RWMutex
	state      state.State
	dirty      bool   // true if items changed since last persist
	generation uint64 // bumped on every change that sets dirty
	lastUpdate int64  // metadata.lastUpdate of the items held
}

// NewStore creates a store holding the initial state.
func NewStore() *Store {
	return &Store{state: state.Initial()}
}

// Dispatch applies ev to the held state and returns a copy of the result.
// Receiving timezones marks the store dirty.
func (s *Store) Dispatch(ev state.Event) state.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := state.Combine(&s.state, ev)
	if _, ok := ev.(state.ReceiveTimezones); ok {
		next.Items = next.Items.Clone()
		s.markDirtyLocked()
	}
	s.state = next

	logger.WithComponent("store").Tracef("applied %s (requesting=%t)", ev.Tag(), next.Requesting)
	return cloneState(s.state)
}

// Restore applies a persisted candidate through Deserialize and records lastUpdate.
// A rejected candidate resets the items to the empty state. Returns whether it was accepted.
func (s *Store) Restore(candidate any, lastUpdate int64) bool {
	validation := timezone.Validate(candidate)
	if !validation.Accepted {
		logger.WithComponent("store").Warnf("persisted snapshot rejected, starting empty: %v", validation.Reason)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Combine(&s.state, state.Deserialize{Candidate: candidate})
	s.lastUpdate = lastUpdate
	s.dirty = false

	logger.WithState("store", s.state.Items.Continents(), s.state.Items.Entries()).
		Debugf("restored snapshot with lastUpdate %d", lastUpdate)
	return validation.Accepted
}

// Snapshot dispatches Serialize and returns a deep copy of the items.
func (s *Store) Snapshot() timezone.CacheState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Combine(&s.state, state.Serialize{})
	return s.state.Items.Clone()
}

// SnapshotVersion is Snapshot plus the change generation the items belong to.
// Pass the generation to ClearDirtyIf once the items are persisted.
func (s *Store) SnapshotVersion() (timezone.CacheState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Combine(&s.state, state.Serialize{})
	return s.state.Items.Clone(), s.generation
}

// State returns a deep copy of the root state.
func (s *Store) State() state.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Requesting reports whether a fetch is in flight.
func (s *Store) Requesting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Requesting
}

// MarkDirty sets the dirty flag to true.
func (s *Store) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markDirtyLocked()
}

func (s *Store) markDirtyLocked() {
	s.dirty = true
	s.generation++
}

// IsDirty returns true if the cache has unpersisted changes.
func (s *Store) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// ClearDirty resets the dirty flag.
func (s *Store) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// ClearDirtyIf resets the dirty flag only when nothing changed since the
// snapshot taken at generation. Returns whether the flag was cleared.
func (s *Store) ClearDirtyIf(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return false
	}
	s.dirty = false
	return true
}

// GetLastUpdate returns the cache's last update timestamp.
func (s *Store) GetLastUpdate() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// SetLastUpdate sets the cache's last update timestamp.
func (s *Store) SetLastUpdate(ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdate = ts
}

func cloneState(st state.State) state.State {
	return state.State{Items: st.Items.Clone(), Requesting: st.Requesting}
}

var _ AppStore = (*Store)(nil)
