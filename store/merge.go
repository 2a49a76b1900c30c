package store

import "reflect"

// Merger is implemented by state types that define their own partial merge.
type Merger[T any] interface {
	Merge(partial T) T
}

// MergeFields performs a shallow merge of partial into current and returns
// the result; current is not modified.
//
//   - structs (and non-nil pointers to structs): non-zero exported fields of
//     partial overwrite the matching fields of a copy of current
//   - maps: keys of partial overwrite keys in a copy of current
//   - anything else: partial replaces current
//
// Zero-valued fields are indistinguishable from absent ones, so a merged
// Value can not set a field back to its zero value. Func and Mutator updates
// are never merged and carry zero values through.
func MergeFields[T any](current, partial T) T {
	cv := reflect.ValueOf(&current).Elem()
	pv := reflect.ValueOf(&partial).Elem()

	merged, ok := mergeValue(cv, pv)
	if !ok {
		return partial
	}
	return merged.Interface().(T)
}

func mergeValue(cv, pv reflect.Value) (reflect.Value, bool) {
	switch cv.Kind() {
	case reflect.Struct:
		out := reflect.New(cv.Type()).Elem()
		out.Set(cv)
		for i := range cv.NumField() {
			if !cv.Type().Field(i).IsExported() {
				continue
			}
			if f := pv.Field(i); !f.IsZero() {
				out.Field(i).Set(f)
			}
		}
		return out, true

	case reflect.Map:
		if pv.IsNil() {
			return cv, true
		}
		if cv.IsNil() {
			return pv, true
		}
		out := reflect.MakeMapWithSize(cv.Type(), cv.Len()+pv.Len())
		for iter := cv.MapRange(); iter.Next(); {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		for iter := pv.MapRange(); iter.Next(); {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out, true

	case reflect.Pointer:
		if pv.IsNil() {
			return cv, true
		}
		if cv.IsNil() || cv.Elem().Kind() != reflect.Struct {
			return pv, true
		}
		elem, _ := mergeValue(cv.Elem(), pv.Elem())
		out := reflect.New(elem.Type())
		out.Elem().Set(elem)
		return out, true

	default:
		return reflect.Value{}, false
	}
}
