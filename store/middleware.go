package store

// Middleware decorates a Creator. Implementations typically overwrite
// Api.SetState and then call the wrapped creator.
type Middleware[T any] func(Creator[T]) Creator[T]

// Chain applies middleware to creator from the inside out: the first entry
// wraps creator directly and the last entry is outermost.
func Chain[T any](creator Creator[T], middleware ...Middleware[T]) Creator[T] {
	for _, m := range middleware {
		if m != nil {
			creator = m(creator)
		}
	}
	return creator
}
