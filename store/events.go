package store

import "github.com/tailored-agentic-units/statekit/observability"

const (
	EventStoreCreate      observability.EventType = "store.create"
	EventStoreSet         observability.EventType = "store.set"
	EventStoreSubscribe   observability.EventType = "store.subscribe"
	EventStoreUnsubscribe observability.EventType = "store.unsubscribe"
)
