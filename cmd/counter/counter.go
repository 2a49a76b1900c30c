package main

import (
	"io"
	"log/slog"

	"github.com/rs/zerolog"
	"github.com/tailored-agentic-units/statekit/config"
	"github.com/tailored-agentic-units/statekit/instrument"
	"github.com/tailored-agentic-units/statekit/mutable"
	"github.com/tailored-agentic-units/statekit/observability"
	"github.com/tailored-agentic-units/statekit/produce"
	"github.com/tailored-agentic-units/statekit/state"
	"github.com/tailored-agentic-units/statekit/store"
)

const countKey = "count"

func initialCounter(set store.SetStateFunc[state.State], get store.GetStateFunc[state.State], api *store.Api[state.State]) state.State {
	return state.New().Set(countKey, 0)
}

func increment(step int) store.Mutator[state.State] {
	return func(draft *state.State) {
		count, _ := draft.Get(countKey)
		n, _ := count.(int)
		*draft = draft.Set(countKey, n+step)
	}
}

// newCounter assembles the counter store described by cfg. Log output from
// the slog and zerolog observers goes to w.
func newCounter(cfg *config.StoreConfig, w io.Writer) (*store.Api[state.State], error) {
	obs, err := newObserver(cfg, w)
	if err != nil {
		return nil, err
	}

	producer, err := produce.ByName[state.State](cfg.Producer)
	if err != nil {
		return nil, err
	}

	middleware := []store.Middleware[state.State]{
		mutable.Middleware[state.State](producer),
	}
	if cfg.Instrument {
		middleware = append(middleware, instrument.Middleware[state.State](obs, cfg.Name))
	}

	return store.Create(
		store.Chain(initialCounter, middleware...),
		store.WithName[state.State](cfg.Name),
		store.WithObserver[state.State](obs),
	), nil
}

func newObserver(cfg *config.StoreConfig, w io.Writer) (observability.Observer, error) {
	switch cfg.Observer {
	case "slog":
		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
		return observability.NewSlogObserver(logger), nil
	case "zerolog":
		level := zerolog.InfoLevel
		if cfg.Verbose {
			level = zerolog.DebugLevel
		}
		return observability.NewConsoleObserver(w, cfg.Name, level), nil
	default:
		return observability.GetObserver(cfg.Observer)
	}
}
