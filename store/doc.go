// Package store provides a small vanilla state container: a single value of
// type T, an update entry point, and synchronous change listeners.
//
// # Construction
//
// A store is built from a Creator, which receives the raw set and get
// functions plus the Api handle, and returns the initial state:
//
//	type Counter struct {
//	    Count int
//	    Name  string
//	}
//
//	api := store.Create(func(set store.SetStateFunc[Counter], get store.GetStateFunc[Counter], api *store.Api[Counter]) Counter {
//	    return Counter{Name: "clicks"}
//	})
//
// # Updates
//
// SetState takes an Update and a replace flag, followed by opaque metadata
// that middleware may read (e.g. an action label):
//
//	api.SetState(store.Of(Counter{Count: 6}), false)            // merge
//	api.SetState(store.Func[Counter](func(c Counter) Counter {  // function updater
//	    c.Count++
//	    return c
//	}), false)
//	api.SetState(store.Of(Counter{}), true, "reset")            // replace + label
//
// With replace == false a plain Value is merged into the current state; see
// MergeFields for the default rules. Func and Mutator updates already start
// from the current state, so their result becomes the new state as-is, zero
// values included. With replace == true every update is taken as-is.
//
// # Middleware
//
// Middleware wraps a Creator and may overwrite Api.SetState before calling
// the creator it wraps. Api.SetState is a plain field for exactly that
// reason. Middleware composes with Chain:
//
//	creator := store.Chain(base,
//	    func(c store.Creator[Counter]) store.Creator[Counter] { return mutable.Mutable(c, produce.Shallow[Counter]) },
//	    func(c store.Creator[Counter]) store.Creator[Counter] { return instrument.Instrument(c, obs, "counter") },
//	)
package store
