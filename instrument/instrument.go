// Package instrument reports store updates to an observer, labelled by the
// action name passed as SetState metadata:
//
//	api.SetState(store.Of(Counter{}), true, "reset")
//	// emits instrument.action with action=reset
//
// It stacks with other store middleware in either order and forwards every
// argument untouched.
package instrument

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/statekit/observability"
	"github.com/tailored-agentic-units/statekit/store"
)

const (
	EventInit   observability.EventType = "instrument.init"
	EventAction observability.EventType = "instrument.action"
)

// Anonymous labels updates that carry no action metadata.
const Anonymous = "anonymous"

// Action is a structured action label with an optional payload.
type Action struct {
	Type    string
	Payload any
}

// Instrument wraps initializer so that every SetState emits EventAction
// after the update has been applied, and store creation emits EventInit.
func Instrument[T any](initializer store.Creator[T], observer observability.Observer, name string) store.Creator[T] {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	source := "instrument." + name

	return func(set store.SetStateFunc[T], get store.GetStateFunc[T], api *store.Api[T]) T {
		api.SetState = func(next store.Update[T], replace bool, meta ...any) {
			set(next, replace, meta...)

			data := map[string]any{
				"store":   name,
				"action":  Label(meta),
				"replace": replace,
				"update":  kind(next),
			}
			if action, ok := firstAction(meta); ok && action.Payload != nil {
				data["payload"] = action.Payload
			}

			observability.Emit(context.Background(), observer, observability.Event{
				Type:   EventAction,
				Level:  observability.LevelInfo,
				Source: source,
				Data:   data,
			})
		}

		initial := initializer(api.SetState, get, api)

		observability.Emit(context.Background(), observer, observability.Event{
			Type:   EventInit,
			Level:  observability.LevelInfo,
			Source: source,
			Data: map[string]any{
				"store": name,
				"id":    api.ID(),
				"state": fmt.Sprintf("%T", initial),
			},
		})

		return initial
	}
}

// Middleware adapts Instrument for store.Chain.
func Middleware[T any](observer observability.Observer, name string) store.Middleware[T] {
	return func(initializer store.Creator[T]) store.Creator[T] {
		return Instrument(initializer, observer, name)
	}
}

// Label extracts the action name from SetState metadata: the first string,
// Action or fmt.Stringer found. Returns Anonymous when there is none.
func Label(meta []any) string {
	for _, m := range meta {
		switch v := m.(type) {
		case string:
			return v
		case Action:
			return v.Type
		case *Action:
			if v != nil {
				return v.Type
			}
		case fmt.Stringer:
			return v.String()
		}
	}
	return Anonymous
}

func firstAction(meta []any) (Action, bool) {
	for _, m := range meta {
		switch v := m.(type) {
		case Action:
			return v, true
		case *Action:
			if v != nil {
				return *v, true
			}
		}
	}
	return Action{}, false
}

func kind[T any](next store.Update[T]) string {
	switch next.(type) {
	case nil:
		return "none"
	case store.Mutator[T]:
		return "mutator"
	case store.Func[T]:
		return "func"
	default:
		return "value"
	}
}
