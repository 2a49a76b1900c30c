package mutable_test

import (
	"reflect"
	"testing"

	"github.com/tailored-agentic-units/statekit/mutable"
	"github.com/tailored-agentic-units/statekit/produce"
	"github.com/tailored-agentic-units/statekit/state"
	"github.com/tailored-agentic-units/statekit/store"
)

type counter struct {
	Count int
	Name  string
}

type inventory struct {
	Owner string
	Stock int
	Items map[string]int
	Tags  []string
}

func (i inventory) Clone() inventory {
	next := i
	next.Items = make(map[string]int, len(i.Items))
	for k, v := range i.Items {
		next.Items[k] = v
	}
	next.Tags = append([]string(nil), i.Tags...)
	return next
}

func initial[T any](v T) store.Creator[T] {
	return func(set store.SetStateFunc[T], get store.GetStateFunc[T], api *store.Api[T]) T {
		return v
	}
}

func producers() map[string]mutable.Producer[inventory] {
	return map[string]mutable.Producer[inventory]{
		"shallow": produce.Shallow[inventory],
		"clone":   produce.Clone[inventory],
		"deep":    produce.Deep[inventory],
	}
}

func newInventory() inventory {
	return inventory{
		Owner: "ada",
		Stock: 1,
		Items: map[string]int{"apple": 1},
		Tags:  []string{"fresh"},
	}
}

func TestMutable_IncrementScenario(t *testing.T) {
	api := store.Create(mutable.Mutable(initial(counter{Count: 0}), produce.Shallow[counter]))
	before := api.GetState()

	api.SetState(store.Mutator[counter](func(c *counter) { c.Count += 1 }), false)

	if got := api.GetState(); got.Count != 1 {
		t.Errorf("Count = %d, want 1", got.Count)
	}
	if before.Count != 0 {
		t.Errorf("previous snapshot changed to %+v", before)
	}
}

func TestMutable_PartialMergeScenario(t *testing.T) {
	api := store.Create(mutable.Mutable(initial(counter{Count: 5, Name: "x"}), produce.Deep[counter]))

	api.SetState(store.Of(counter{Count: 6}), false)

	if got := api.GetState(); got != (counter{Count: 6, Name: "x"}) {
		t.Errorf("GetState() = %+v, want {Count:6 Name:x}", got)
	}
}

func TestMutable_PlainValuesAreTransparent(t *testing.T) {
	tests := []struct {
		name    string
		next    store.Update[counter]
		replace bool
	}{
		{name: "partial merge", next: store.Of(counter{Count: 9})},
		{name: "full replace", next: store.Of(counter{Name: "y"}), replace: true},
		{name: "nil update", next: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := counter{Count: 1, Name: "x"}
			plain := store.Create(initial(start))
			decorated := store.Create(mutable.Mutable(initial(start), produce.Deep[counter]))

			plain.SetState(tt.next, tt.replace)
			decorated.SetState(tt.next, tt.replace)

			if plain.GetState() != decorated.GetState() {
				t.Errorf("decorated = %+v, undecorated = %+v", decorated.GetState(), plain.GetState())
			}
		})
	}
}

func TestMutable_MatchesManualProduce(t *testing.T) {
	recipe := func(d *inventory) {
		d.Items["pear"] = 2
		d.Tags = append(d.Tags, "sale")
	}

	for name, producer := range producers() {
		t.Run(name, func(t *testing.T) {
			decorated := store.Create(mutable.Mutable(initial(newInventory()), producer))
			plain := store.Create(initial(newInventory()))

			decorated.SetState(store.Mutator[inventory](recipe), true)
			plain.SetState(store.Of(producer(recipe)(plain.GetState())), true)

			if !reflect.DeepEqual(decorated.GetState(), plain.GetState()) {
				t.Errorf("decorated = %+v, manual = %+v", decorated.GetState(), plain.GetState())
			}
		})
	}
}

func TestMutable_NoOpMutator(t *testing.T) {
	for name, producer := range producers() {
		t.Run(name, func(t *testing.T) {
			api := store.Create(mutable.Mutable(initial(newInventory()), producer))
			before := api.GetState()

			api.SetState(store.Mutator[inventory](func(*inventory) {}), true)

			if !reflect.DeepEqual(api.GetState(), before) {
				t.Errorf("GetState() = %+v, want %+v", api.GetState(), before)
			}
		})
	}
}

func TestMutable_NoOpMutator_DeepKeepsBase(t *testing.T) {
	api := store.Create(mutable.Mutable(initial(newInventory()), produce.Deep[inventory]))
	before := api.GetState()

	api.SetState(store.Mutator[inventory](func(*inventory) {}), true)

	after := api.GetState()
	if &after.Tags[0] != &before.Tags[0] {
		t.Error("deep producer should return the base value when nothing changed")
	}
}

func TestMutable_DraftIsolation(t *testing.T) {
	for _, name := range []string{"clone", "deep"} {
		t.Run(name, func(t *testing.T) {
			api := store.Create(mutable.Mutable(initial(newInventory()), producers()[name]))
			before := api.GetState()

			api.SetState(store.Mutator[inventory](func(d *inventory) {
				d.Items["apple"] = 10
				d.Tags[0] = "stale"
			}), false)

			if before.Items["apple"] != 1 || before.Tags[0] != "fresh" {
				t.Errorf("previous snapshot mutated: %+v", before)
			}
			if after := api.GetState(); after.Items["apple"] != 10 || after.Tags[0] != "stale" {
				t.Errorf("GetState() = %+v, want apple=10 tags=[stale]", after)
			}
		})
	}
}

func TestMutable_FuncUpdaterUsesProducer(t *testing.T) {
	calls := 0
	spy := func(recipe func(*counter)) func(counter) counter {
		calls++
		return produce.Shallow(recipe)
	}

	api := store.Create(mutable.Mutable(initial(counter{Count: 2, Name: "x"}), spy))
	api.SetState(store.Func[counter](func(c counter) counter {
		c.Count *= 2
		return c
	}), false)

	if calls != 1 {
		t.Errorf("producer called %d times, want 1", calls)
	}
	if got := api.GetState(); got != (counter{Count: 4, Name: "x"}) {
		t.Errorf("GetState() = %+v, want {Count:4 Name:x}", got)
	}
}

func TestMutable_PlainValueSkipsProducer(t *testing.T) {
	calls := 0
	spy := func(recipe func(*counter)) func(counter) counter {
		calls++
		return produce.Shallow(recipe)
	}

	api := store.Create(mutable.Mutable(initial(counter{}), spy))
	api.SetState(store.Of(counter{Count: 1}), false)
	api.SetState(store.Of(counter{Count: 2}), true, "label")

	if calls != 0 {
		t.Errorf("producer called %d times for plain values, want 0", calls)
	}
}

type call struct {
	next    store.Update[counter]
	replace bool
	meta    []any
}

func TestMutable_ForwardsReplaceAndMeta(t *testing.T) {
	var calls []call
	set := func(next store.Update[counter], replace bool, meta ...any) {
		calls = append(calls, call{next: next, replace: replace, meta: meta})
	}
	get := func() counter { return counter{Count: 1} }
	api := &store.Api[counter]{}

	mutator := func(c *counter) { c.Count += 1 }
	mutable.Mutable(initial(counter{}), produce.Shallow[counter])(set, get, api)

	api.SetState(store.Mutator[counter](mutator), true, "label")
	api.SetState(store.Of(counter{Count: 7}), false, "plain", 42)

	if len(calls) != 2 {
		t.Fatalf("underlying set called %d times, want 2", len(calls))
	}

	produced, ok := calls[0].next.(store.Func[counter])
	if !ok {
		t.Fatalf("mutator forwarded as %T, want store.Func", calls[0].next)
	}
	if got, want := produced(get()), produce.Shallow(mutator)(get()); got != want {
		t.Errorf("forwarded transform = %+v, want %+v", got, want)
	}
	if !calls[0].replace {
		t.Error("replace flag not forwarded")
	}
	if len(calls[0].meta) != 1 || calls[0].meta[0] != "label" {
		t.Errorf("meta = %v, want [label]", calls[0].meta)
	}

	if v, ok := calls[1].next.(store.Value[counter]); !ok || v.V.Count != 7 {
		t.Errorf("plain value forwarded as %#v", calls[1].next)
	}
	if calls[1].replace {
		t.Error("replace flag should be false")
	}
	if len(calls[1].meta) != 2 || calls[1].meta[0] != "plain" || calls[1].meta[1] != 42 {
		t.Errorf("meta = %v, want [plain 42]", calls[1].meta)
	}
}

func TestMutable_InitializerReceivesDecoratedSet(t *testing.T) {
	type actions struct {
		Count int
		Inc   func()
	}

	api := store.Create(mutable.Mutable(func(set store.SetStateFunc[actions], get store.GetStateFunc[actions], api *store.Api[actions]) actions {
		return actions{
			Inc: func() {
				set(store.Mutator[actions](func(d *actions) {
					d.Count = get().Count + 1
				}), false)
			},
		}
	}, produce.Shallow[actions]))

	api.GetState().Inc()
	api.GetState().Inc()

	if got := api.GetState().Count; got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
}

func TestMutable_RecipePanicPropagates(t *testing.T) {
	api := store.Create(mutable.Mutable(initial(newInventory()), produce.Deep[inventory]))
	before := api.GetState()

	defer func() {
		r := recover()
		if r != "rejected" {
			t.Errorf("recover() = %v, want %q", r, "rejected")
		}
		if !reflect.DeepEqual(api.GetState(), before) {
			t.Errorf("state changed after panic: %+v", api.GetState())
		}
	}()

	api.SetState(store.Mutator[inventory](func(d *inventory) {
		d.Owner = "mallory"
		panic("rejected")
	}), false)
}

func TestMutable_MapState(t *testing.T) {
	api := store.Create(mutable.Mutable(initial(state.New().Set("count", 0).Set("name", "x")), produce.Clone[state.State]))
	before := api.GetState()

	api.SetState(store.Mutator[state.State](func(d *state.State) {
		count, _ := d.Get("count")
		d.Put("count", count.(int)+1)
	}), false)

	if v, _ := api.GetState().Get("count"); v != 1 {
		t.Errorf("count = %v, want 1", v)
	}
	if v, _ := api.GetState().Get("name"); v != "x" {
		t.Errorf("name = %v, want x", v)
	}
	if v, _ := before.Get("count"); v != 0 {
		t.Errorf("previous count = %v, want 0", v)
	}
}

func TestMutable_ZeroValuesSurviveMerge(t *testing.T) {
	tests := []struct {
		name   string
		recipe func(d *inventory)
		check  func(t *testing.T, got inventory)
	}{
		{
			name:   "decrement to zero",
			recipe: func(d *inventory) { d.Stock-- },
			check: func(t *testing.T, got inventory) {
				if got.Stock != 0 {
					t.Errorf("Stock = %d, want 0", got.Stock)
				}
			},
		},
		{
			name:   "clear string",
			recipe: func(d *inventory) { d.Owner = "" },
			check: func(t *testing.T, got inventory) {
				if got.Owner != "" {
					t.Errorf("Owner = %q, want empty", got.Owner)
				}
			},
		},
		{
			name:   "nil slice",
			recipe: func(d *inventory) { d.Tags = nil },
			check: func(t *testing.T, got inventory) {
				if got.Tags != nil {
					t.Errorf("Tags = %v, want nil", got.Tags)
				}
			},
		},
		{
			name: "clear everything",
			recipe: func(d *inventory) {
				*d = inventory{}
			},
			check: func(t *testing.T, got inventory) {
				if !reflect.DeepEqual(got, inventory{}) {
					t.Errorf("GetState() = %+v, want zero inventory", got)
				}
			},
		},
	}

	for pname, producer := range producers() {
		for _, tt := range tests {
			t.Run(pname+"/"+tt.name, func(t *testing.T) {
				api := store.Create(mutable.Mutable(initial(newInventory()), producer))

				api.SetState(store.Mutator[inventory](tt.recipe), false)

				got := api.GetState()
				tt.check(t, got)
				if tt.name != "clear everything" && got.Items["apple"] != 1 {
					t.Errorf("untouched Items = %v, want apple=1", got.Items)
				}
			})
		}
	}
}

func TestMutable_RemoveKeyWithMerge(t *testing.T) {
	producers := map[string]mutable.Producer[state.State]{
		"clone": produce.Clone[state.State],
		"deep":  produce.Deep[state.State],
	}

	for name, producer := range producers {
		t.Run(name, func(t *testing.T) {
			api := store.Create(mutable.Mutable(initial(state.New().Set("a", 1).Set("b", 2)), producer))
			before := api.GetState()

			api.SetState(store.Mutator[state.State](func(d *state.State) { d.Remove("a") }), false)

			got := api.GetState()
			if _, ok := got.Get("a"); ok {
				t.Errorf("key a still present: %s", got)
			}
			if v, _ := got.Get("b"); v != 2 {
				t.Errorf("b = %v, want 2", v)
			}
			if _, ok := before.Get("a"); !ok {
				t.Error("previous snapshot lost key a")
			}
		})
	}
}

func TestMiddleware_Chain(t *testing.T) {
	api := store.Create(store.Chain(initial(counter{Name: "x"}), mutable.Middleware(produce.Shallow[counter])))

	api.SetState(store.Mutator[counter](func(c *counter) { c.Count = 3 }), false)

	if got := api.GetState(); got != (counter{Count: 3, Name: "x"}) {
		t.Errorf("GetState() = %+v, want {Count:3 Name:x}", got)
	}
}
