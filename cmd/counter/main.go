package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tailored-agentic-units/statekit/config"
	"github.com/tailored-agentic-units/statekit/state"
	"github.com/tailored-agentic-units/statekit/store"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to store config file (.json, .yaml, .toml)")
		name       = flag.String("name", "", "Store name (overrides config)")
		producer   = flag.String("producer", "", "Draft producer: shallow, deep or clone (overrides config)")
		observer   = flag.String("observer", "", "Observer: noop, slog or zerolog (overrides config)")
		increments = flag.Int("increments", 3, "Number of increment actions to apply")
		step       = flag.Int("step", 1, "Amount added by each increment")
		reset      = flag.Bool("reset", false, "Replace the state with the initial state at the end")
		instrument = flag.Bool("instrument", false, "Emit an event for every action")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg := config.DefaultStoreConfig()
	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	if *name != "" {
		cfg.Name = *name
	}
	if *producer != "" {
		cfg.Producer = *producer
	}
	if *observer != "" {
		cfg.Observer = *observer
	}
	if *instrument {
		cfg.Instrument = true
	}
	if *verbose {
		cfg.Verbose = true
	}

	api, err := newCounter(&cfg, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	api.Subscribe(func(current, previous state.State) {
		fmt.Printf("  %s -> %s\n", previous, current)
	})

	fmt.Printf("Store %s (%s, producer=%s)\n", api.Name(), api.ID(), cfg.Producer)
	for range *increments {
		api.SetState(increment(*step), false, "increment")
	}

	if *reset {
		api.SetState(store.Of(api.GetInitialState()), true, "reset")
	}

	fmt.Printf("\nFinal: %s\n", api.GetState())
}
