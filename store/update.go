package store

// Update is the first argument to SetState. The host resolves it against the
// current state with Next; middleware may inspect the concrete variant.
type Update[T any] interface {
	Next(current T) T
}

// Value is a plain next state, full or partial.
type Value[T any] struct {
	V T
}

// Of wraps v as a plain Update.
func Of[T any](v T) Value[T] {
	return Value[T]{V: v}
}

func (u Value[T]) Next(T) T {
	return u.V
}

// Func computes the next state, full or partial, from the current one.
type Func[T any] func(current T) T

func (f Func[T]) Next(current T) T {
	return f(current)
}

// Mutator edits a draft of the current state in place. The draft must not be
// retained after the call returns.
//
// On an undecorated store the draft is a shallow copy of the current state,
// so maps, slices and pointers are shared with it and edits through them
// leak into the previous value. Decorate the store with a draft producer
// (see package mutable) for isolated drafts.
type Mutator[T any] func(draft *T)

func (m Mutator[T]) Next(current T) T {
	m(&current)
	return current
}

// IsCallable reports whether u computes its value from the current state
// rather than carrying one.
func IsCallable[T any](u Update[T]) bool {
	switch u.(type) {
	case Func[T], Mutator[T]:
		return true
	default:
		return false
	}
}
