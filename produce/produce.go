// Package produce provides draft producers for package mutable. Each one
// copies the base state into a draft, runs the recipe against the draft and
// returns the draft as the next state. They differ only in how much of the
// base is copied.
//
// All three have the shape func(recipe func(*T)) func(T) T and can be
// swapped without touching the store or the decorator.
package produce

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/mohae/deepcopy"
)

var (
	// ErrUnknownProducer is returned by ByName for unregistered names.
	ErrUnknownProducer = errors.New("unknown producer")
	// ErrNotCloner is returned by ByName("clone") when T has no Clone method.
	ErrNotCloner = errors.New("state type does not implement Cloner")
	// ErrNotDeepCopyable is returned by ByName("deep") when T holds nested
	// unexported struct fields that a deep copy would zero.
	ErrNotDeepCopyable = errors.New("state type has nested unexported fields")
)

// Cloner is implemented by state types that know how to copy themselves
// for editing.
type Cloner[T any] interface {
	Clone() T
}

// Shallow drafts a value copy of base. Maps, slices and pointers inside T are
// shared with base; a recipe must assign fresh ones rather than editing them
// in place.
func Shallow[T any](recipe func(draft *T)) func(base T) T {
	return func(base T) T {
		draft := base
		recipe(&draft)
		return draft
	}
}

// Clone drafts base.Clone(). How deep the copy goes is up to T.
func Clone[T Cloner[T]](recipe func(draft *T)) func(base T) T {
	return func(base T) T {
		draft := base.Clone()
		recipe(&draft)
		return draft
	}
}

// Deep drafts a recursive copy of base, so the recipe may edit nested maps,
// slices and pointed-to structs freely. If the recipe leaves the draft deeply
// equal to base, base itself is returned.
//
// Unexported fields of a struct T are carried over from base as they are.
// Unexported fields further down (inside a field, element or pointee) come
// out zeroed, so ByName refuses such types; they should implement
// deepcopy.Interface or use Clone instead. time.Time is copied as a value
// and funcs and channels are shared.
func Deep[T any](recipe func(draft *T)) func(base T) T {
	return func(base T) T {
		draft := deepDraft(base)
		recipe(&draft)

		if reflect.DeepEqual(draft, base) {
			return base
		}
		return draft
	}
}

// ByName resolves a producer for configuration: "shallow" (also ""),
// "deep" or "clone". "clone" requires T to implement Cloner[T].
func ByName[T any](name string) (func(recipe func(draft *T)) func(base T) T, error) {
	switch name {
	case "", "shallow":
		return Shallow[T], nil
	case "deep":
		if t := reflect.TypeFor[T](); hasNestedUnexported(t, 0, map[reflect.Type]bool{}) {
			return nil, fmt.Errorf("%w: %v", ErrNotDeepCopyable, t)
		}
		return Deep[T], nil
	case "clone":
		var zero T
		if _, ok := any(zero).(Cloner[T]); !ok {
			return nil, fmt.Errorf("%w: %T", ErrNotCloner, zero)
		}
		return cloneDynamic[T], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProducer, name)
	}
}

func cloneDynamic[T any](recipe func(draft *T)) func(base T) T {
	return func(base T) T {
		draft := any(base).(Cloner[T]).Clone()
		recipe(&draft)
		return draft
	}
}

func deepDraft[T any](base T) T {
	draft, ok := deepcopy.Copy(base).(T)
	if !ok {
		return base
	}
	if _, custom := any(base).(deepcopy.Interface); custom {
		return draft
	}

	bv := reflect.ValueOf(&base).Elem()
	if bv.Kind() != reflect.Struct {
		return draft
	}
	dv := reflect.ValueOf(&draft).Elem()
	out := reflect.New(bv.Type()).Elem()
	out.Set(bv)
	for i := range bv.NumField() {
		if bv.Type().Field(i).IsExported() {
			out.Field(i).Set(dv.Field(i))
		}
	}
	return out.Interface().(T)
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	deepCopyType = reflect.TypeFor[deepcopy.Interface]()
)

// hasNestedUnexported reports whether a deep copy of t would zero any
// unexported struct field below the top level.
func hasNestedUnexported(t reflect.Type, depth int, seen map[reflect.Type]bool) bool {
	if seen[t] || t == timeType || t.Implements(deepCopyType) {
		return false
	}
	if depth > 0 {
		seen[t] = true
	}

	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				if depth > 0 {
					return true
				}
				continue
			}
			if hasNestedUnexported(f.Type, depth+1, seen) {
				return true
			}
		}
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return hasNestedUnexported(t.Elem(), depth+1, seen)
	case reflect.Map:
		return hasNestedUnexported(t.Key(), depth+1, seen) ||
			hasNestedUnexported(t.Elem(), depth+1, seen)
	}
	return false
}
