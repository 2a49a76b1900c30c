// Package state provides State, an immutable string-keyed map suited to
// stores whose shape is not known at compile time. Every method returns a
// new State; the receiver is never modified.
//
//	s := state.New().Set("user", "alice").Set("count", 42)
//	value, exists := s.Get("user") // "alice", true
//
// State implements Clone and Merge, so it can be used with produce.Clone
// for drafts and is merged key-by-key by the store on partial updates.
// Drafts are edited in place with Put and Remove:
//
//	api.SetState(store.Mutator[state.State](func(d *state.State) {
//	    d.Put("count", 43)
//	}), false)
package state

import (
	"encoding/json"
	"maps"
	"slices"
)

// State is an immutable key-value snapshot.
type State struct {
	Data map[string]any `json:"data"`
}

// New creates an empty State.
func New() State {
	return State{Data: make(map[string]any)}
}

// FromMap creates a State holding a copy of data.
func FromMap(data map[string]any) State {
	s := New()
	maps.Copy(s.Data, data)
	return s
}

// Clone returns an independent copy. The top-level map is copied; values
// are shared.
func (s State) Clone() State {
	return State{Data: maps.Clone(s.Data)}
}

// Get returns the value stored under key and whether it exists.
func (s State) Get(key string) (any, bool) {
	val, exists := s.Data[key]
	return val, exists
}

// Set returns a new State with key set to value.
func (s State) Set(key string, value any) State {
	next := s.Clone()
	if next.Data == nil {
		next.Data = make(map[string]any)
	}
	next.Data[key] = value
	return next
}

// Delete returns a new State without key.
func (s State) Delete(key string) State {
	next := s.Clone()
	delete(next.Data, key)
	return next
}

// Merge returns a new State with the keys of partial copied over s.
func (s State) Merge(partial State) State {
	next := s.Clone()
	if next.Data == nil {
		next.Data = make(map[string]any, len(partial.Data))
	}
	maps.Copy(next.Data, partial.Data)
	return next
}

// Keys returns the keys in sorted order.
func (s State) Keys() []string {
	return slices.Sorted(maps.Keys(s.Data))
}

// Len returns the number of keys.
func (s State) Len() int {
	return len(s.Data)
}

// Put sets key on a draft in place. Only call it on a draft whose map is
// not shared with the base, i.e. one from produce.Clone or produce.Deep;
// with produce.Shallow use Set and assign the result to the draft.
func (s *State) Put(key string, value any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Remove deletes key from a draft in place. The same ownership rule as Put
// applies. The removal sticks with either replace flag because a mutator's
// draft is the complete next state; a State passed as a plain partial value
// is merged key by key and can not remove anything.
func (s *State) Remove(key string) {
	delete(s.Data, key)
}

// String renders the state as JSON for logs.
func (s State) String() string {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return "{}"
	}
	return string(data)
}
