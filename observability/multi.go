package observability

import "context"

// MultiObserver delivers each event to several observers in order, e.g. a
// slog observer for operators alongside a capture observer in tests.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver drops nil entries and returns an observer that fans out
// to the rest.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// Len reports how many observers receive events.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}
