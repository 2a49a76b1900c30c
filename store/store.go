package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/statekit/observability"
)

// SetStateFunc is the update entry point. next is resolved against the
// current state. A plain Value is merged into the current state unless
// replace is set; a Func or Mutator result is the complete next state. meta
// is opaque to the store and forwarded untouched by well-behaved middleware.
type SetStateFunc[T any] func(next Update[T], replace bool, meta ...any)

// GetStateFunc returns the current state.
type GetStateFunc[T any] func() T

// Listener is notified after every state change, in subscription order.
type Listener[T any] func(state, previous T)

// Creator builds the initial state. set and get are the raw store functions;
// api is the handle middleware may modify before the creator runs.
type Creator[T any] func(set SetStateFunc[T], get GetStateFunc[T], api *Api[T]) T

// Api is the handle to a store. SetState is a field rather than a method so
// middleware can replace it during construction.
type Api[T any] struct {
	SetState        SetStateFunc[T]
	GetState        GetStateFunc[T]
	GetInitialState GetStateFunc[T]
	Subscribe       func(listener Listener[T]) (unsubscribe func())

	id   string
	name string
}

// ID returns the store's unique UUIDv7 identifier.
func (a *Api[T]) ID() string {
	return a.id
}

// Name returns the store name used in observability events.
func (a *Api[T]) Name() string {
	return a.name
}

// Option configures a store at creation.
type Option[T any] func(*options[T])

type options[T any] struct {
	name     string
	observer observability.Observer
	merge    func(current, partial T) T
	equal    func(a, b T) bool
}

// WithName sets the store name reported in events. Defaults to "store".
func WithName[T any](name string) Option[T] {
	return func(o *options[T]) { o.name = name }
}

// WithObserver routes store events to observer. Defaults to NoOpObserver.
func WithObserver[T any](observer observability.Observer) Option[T] {
	return func(o *options[T]) { o.observer = observer }
}

// WithMerge overrides how partial updates are merged.
func WithMerge[T any](merge func(current, partial T) T) Option[T] {
	return func(o *options[T]) { o.merge = merge }
}

// WithEqual suppresses notification when equal reports the next state equal
// to the previous one. Without it every SetState notifies.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(o *options[T]) { o.equal = equal }
}

type subscription[T any] struct {
	id       uint64
	listener Listener[T]
}

type vanilla[T any] struct {
	opts      options[T]
	source    string
	state     T
	initial   T
	listeners []subscription[T]
	nextID    uint64
	mu        sync.RWMutex
}

// Create builds a store from creator. Middleware wrapped around creator runs
// first and sees the Api before the initial state exists.
//
// SetState, GetState and Subscribe are safe for concurrent use. Updates are
// resolved against a snapshot outside the lock, so concurrent callable
// updates are last-write-wins; callers that need ordering must serialize.
func Create[T any](creator Creator[T], opts ...Option[T]) *Api[T] {
	o := options[T]{
		name:     "store",
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = observability.NoOpObserver{}
	}
	if o.merge == nil {
		o.merge = defaultMerge[T]
	}

	s := &vanilla[T]{
		opts:   o,
		source: "store." + o.name,
	}

	api := &Api[T]{
		id:   uuid.Must(uuid.NewV7()).String(),
		name: o.name,
	}
	api.SetState = s.set
	api.GetState = s.get
	api.GetInitialState = s.getInitial
	api.Subscribe = s.subscribe

	initial := creator(s.set, s.get, api)

	s.mu.Lock()
	s.state = initial
	s.initial = initial
	s.mu.Unlock()

	observability.Emit(context.Background(), o.observer, observability.Event{
		Type:   EventStoreCreate,
		Level:  observability.LevelInfo,
		Source: s.source,
		Data:   map[string]any{"id": api.id},
	})

	return api
}

func defaultMerge[T any](current, partial T) T {
	if m, ok := any(current).(Merger[T]); ok {
		return m.Merge(partial)
	}
	return MergeFields(current, partial)
}

func (s *vanilla[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *vanilla[T]) getInitial() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initial
}

func (s *vanilla[T]) set(next Update[T], replace bool, meta ...any) {
	previous := s.get()

	var resolved T
	if next == nil {
		resolved = previous
	} else {
		resolved = next.Next(previous)
	}

	// Callable updates derive a complete state from previous, so only plain
	// values are partial.
	state := resolved
	if !replace && !IsCallable(next) {
		state = s.opts.merge(previous, resolved)
	}

	if s.opts.equal != nil && s.opts.equal(state, previous) {
		return
	}

	s.mu.Lock()
	s.state = state
	listeners := make([]subscription[T], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	observability.Emit(context.Background(), s.opts.observer, observability.Event{
		Type:   EventStoreSet,
		Level:  observability.LevelVerbose,
		Source: s.source,
		Data: map[string]any{
			"replace":   replace,
			"meta":      len(meta),
			"listeners": len(listeners),
		},
	})

	for _, sub := range listeners {
		sub.listener(state, previous)
	}
}

func (s *vanilla[T]) subscribe(listener Listener[T]) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription[T]{id: id, listener: listener})
	s.mu.Unlock()

	observability.Emit(context.Background(), s.opts.observer, observability.Event{
		Type:   EventStoreSubscribe,
		Level:  observability.LevelVerbose,
		Source: s.source,
		Data:   map[string]any{"subscription": id},
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					break
				}
			}
			s.mu.Unlock()

			observability.Emit(context.Background(), s.opts.observer, observability.Event{
				Type:   EventStoreUnsubscribe,
				Level:  observability.LevelVerbose,
				Source: s.source,
				Data:   map[string]any{"subscription": id},
			})
		})
	}
}
