package observability

import "context"

// NoOpObserver discards every event. Stores fall back to it when no observer
// is configured.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
