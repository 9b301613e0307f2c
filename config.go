// Package swipefeed ties the feed engine to the app-level TOML
// configuration shared by the demo and embedding front ends.
package swipefeed

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/roamlight/swipefeed/feed"
)

// Config is the app configuration file shape.
type Config struct {
	// DataDir holds the SQLite database and the profile file.
	DataDir string `toml:"data_dir"`

	Feed    FeedTuning    `toml:"feed"`
	Haptics HapticsTuning `toml:"haptics"`
}

// FeedTuning exposes the engine knobs worth configuring per app.
type FeedTuning struct {
	// ItemExtent is the scroll distance per item, in points. The
	// rendering layer typically overrides this with the live screen
	// extent.
	ItemExtent float64 `toml:"item_extent"`

	SampleIntervalMS int `toml:"sample_interval_ms"`
	LongPressMS      int `toml:"long_press_ms"`
	DoubleTapMS      int `toml:"double_tap_ms"`

	// TapSlop is the tap travel tolerance in points.
	TapSlop float64 `toml:"tap_slop"`
}

// HapticsTuning configures haptic behavior.
type HapticsTuning struct {
	// Transitions pulses on every accepted item transition.
	Transitions bool `toml:"transitions"`
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() Config {
	return Config{
		DataDir: ".",
		Feed: FeedTuning{
			ItemExtent:       812,
			SampleIntervalMS: 30,
			LongPressMS:      500,
			DoubleTapMS:      250,
			TapSlop:          24,
		},
		Haptics: HapticsTuning{
			Transitions: true,
		},
	}
}

// LoadConfigFromFile reads a TOML config, layering it over the defaults.
// A missing file returns the defaults unchanged.
func LoadConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// EngineConfig converts the file tuning into an engine config. Collaborators
// and callbacks are filled in by the caller.
func (c Config) EngineConfig(log zerolog.Logger) feed.Config {
	fc := feed.DefaultConfig()
	fc.Logger = log
	if c.Feed.ItemExtent > 0 {
		fc.ItemExtent = c.Feed.ItemExtent
	}
	if c.Feed.SampleIntervalMS > 0 {
		fc.SampleInterval = time.Duration(c.Feed.SampleIntervalMS) * time.Millisecond
	}
	if c.Feed.LongPressMS > 0 {
		fc.LongPressDelay = time.Duration(c.Feed.LongPressMS) * time.Millisecond
	}
	if c.Feed.DoubleTapMS > 0 {
		fc.DoubleTapDelay = time.Duration(c.Feed.DoubleTapMS) * time.Millisecond
	}
	if c.Feed.TapSlop > 0 {
		fc.TapSlop = c.Feed.TapSlop
	}
	fc.HapticTransitions = c.Haptics.Transitions
	return fc
}
