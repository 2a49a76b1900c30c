// Package mutable decorates a store so that callable updates are written
// against a mutable draft of the current state instead of returning a new
// value. A Producer turns the draft edits into a fresh immutable value:
//
//	api := store.Create(mutable.Mutable(func(set store.SetStateFunc[Counter], get store.GetStateFunc[Counter], _ *store.Api[Counter]) Counter {
//	    return Counter{}
//	}, produce.Deep[Counter]))
//
//	api.SetState(store.Mutator[Counter](func(c *Counter) { c.Count++ }), false)
//
// Plain values pass through untouched, so merge and replace behave exactly
// as they do on the undecorated store.
package mutable

import "github.com/tailored-agentic-units/statekit/store"

// Producer turns a recipe over a draft into a pure transform of the state.
// The draft is owned by the producer and is only valid during the recipe.
// If the recipe panics the draft is discarded by the producer and the panic
// reaches the SetState caller.
type Producer[T any] func(recipe func(draft *T)) func(base T) T

// Mutable wraps initializer so that, when the store is created, Api.SetState
// is replaced by a dispatcher that routes callable updates through producer.
// The replacement happens once, before initializer runs, and initializer
// receives the new SetState as its set function.
//
// Updates of type store.Mutator and store.Func are turned into recipes; the
// resulting transform is forwarded as a store.Func, with replace and meta
// unchanged, to the set function Mutable itself was given. Every other
// update is forwarded as-is.
func Mutable[T any](initializer store.Creator[T], producer Producer[T]) store.Creator[T] {
	return func(set store.SetStateFunc[T], get store.GetStateFunc[T], api *store.Api[T]) T {
		api.SetState = func(next store.Update[T], replace bool, meta ...any) {
			if recipe, ok := recipeOf(next); ok {
				next = store.Func[T](producer(recipe))
			}
			set(next, replace, meta...)
		}

		return initializer(api.SetState, get, api)
	}
}

// Middleware adapts Mutable for store.Chain.
func Middleware[T any](producer Producer[T]) store.Middleware[T] {
	return func(initializer store.Creator[T]) store.Creator[T] {
		return Mutable(initializer, producer)
	}
}

func recipeOf[T any](next store.Update[T]) (func(draft *T), bool) {
	switch u := next.(type) {
	case store.Mutator[T]:
		return u, true
	case store.Func[T]:
		// A function updater replaces the draft with its result.
		return func(draft *T) { *draft = u(*draft) }, true
	default:
		return nil, false
	}
}
