// Package config holds the settings used to assemble a store: its name,
// which observer receives its events, and which draft producer backs
// mutable updates.
//
// Configuration only exists during initialization. Names are resolved into
// runtime values by the packages that own them (observability.GetObserver,
// produce.ByName), so config has no dependency on either.
//
// Loaded files and environment variables are layered over the defaults
// with Merge:
//
//	cfg, err := config.LoadConfig("store.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := config.ApplyEnv(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Merge semantics follow the usual rules: strings merge when non-empty and
// booleans merge when true.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by LoadConfig for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// StoreConfig configures a store and its middleware.
//
// Example YAML:
//
//	name: counter
//	observer: slog
//	producer: deep
//	verbose: true
type StoreConfig struct {
	// Name identifies the store in observability events
	Name string `json:"name" yaml:"name" toml:"name" env:"STATEKIT_NAME"`

	// Observer names a registered observer ("noop", "slog", "zerolog")
	Observer string `json:"observer" yaml:"observer" toml:"observer" env:"STATEKIT_OBSERVER"`

	// Producer names the draft producer ("shallow", "deep", "clone")
	Producer string `json:"producer" yaml:"producer" toml:"producer" env:"STATEKIT_PRODUCER"`

	// Instrument enables action events for every update
	Instrument bool `json:"instrument" yaml:"instrument" toml:"instrument" env:"STATEKIT_INSTRUMENT"`

	// Verbose lowers the log level to include per-update store events
	Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" env:"STATEKIT_VERBOSE"`
}

// DefaultStoreConfig returns the defaults:
//   - Name: "store"
//   - Observer: "slog"
//   - Producer: "shallow"
//   - Instrument, Verbose: false
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Name:     "store",
		Observer: "slog",
		Producer: "shallow",
	}
}

func (c *StoreConfig) Merge(source *StoreConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.Producer != "" {
		c.Producer = source.Producer
	}

	if source.Instrument {
		c.Instrument = source.Instrument
	}

	if source.Verbose {
		c.Verbose = source.Verbose
	}
}

// LoadConfig reads a config file, merges it over the defaults and returns
// the result. The format is picked from the extension: .json, .yaml, .yml
// or .toml.
func LoadConfig(filename string) (*StoreConfig, error) {
	cfg := DefaultStoreConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded StoreConfig
	if err := decode(filepath.Ext(filename), data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

func decode(ext string, data []byte, target *StoreConfig) error {
	switch strings.ToLower(ext) {
	case ".json":
		return json.Unmarshal(data, target)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, target)
	case ".toml":
		return toml.Unmarshal(data, target)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ApplyEnv overlays STATEKIT_* environment variables onto cfg. Unset
// variables leave the current values in place.
func ApplyEnv(cfg *StoreConfig) error {
	var loaded StoreConfig
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.Merge(&loaded)
	return nil
}
