// Package config holds all quakepick configuration: built-in defaults,
// overridden by an optional TOML file, overridden by QUAKEPICK_* environment
// variables. Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all quakepick settings.
type Config struct {
	Archive  ArchiveConfig `toml:"archive"`
	Station  StationConfig `toml:"station"`
	Window   WindowConfig  `toml:"window"`
	Filter   FilterConfig  `toml:"filter"`
	Picker   PickerConfig  `toml:"picker"`
	Output   OutputConfig  `toml:"output"`
	LogLevel string        `toml:"log_level"`
}

// ArchiveConfig selects the FDSN data center.
type ArchiveConfig struct {
	Endpoint       string  `toml:"endpoint"`
	TimeoutSeconds float64 `toml:"timeout_seconds"`
}

// Timeout returns the HTTP timeout as a duration.
func (a ArchiveConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds * float64(time.Second))
}

// StationConfig is the default station selector.
type StationConfig struct {
	Network  string `toml:"network"`
	Station  string `toml:"station"`
	Location string `toml:"location"`
	Channel  string `toml:"channel"`
}

// WindowConfig sets the requested time window around the origin.
type WindowConfig struct {
	PretimeSeconds  float64 `toml:"pretime_seconds"`
	PosttimeSeconds float64 `toml:"posttime_seconds"`
}

// Pretime returns the pre-origin offset as a duration.
func (w WindowConfig) Pretime() time.Duration {
	return time.Duration(w.PretimeSeconds * float64(time.Second))
}

// Posttime returns the post-origin offset as a duration.
func (w WindowConfig) Posttime() time.Duration {
	return time.Duration(w.PosttimeSeconds * float64(time.Second))
}

// FilterConfig sets the band-pass corner frequencies in Hz.
type FilterConfig struct {
	FreqMin float64 `toml:"freq_min"`
	FreqMax float64 `toml:"freq_max"`
}

// PickerConfig locates the model and tunes pick extraction.
type PickerConfig struct {
	ModelPath     string  `toml:"model_path"`
	LibraryPath   string  `toml:"library_path"`
	WindowSamples int     `toml:"window_samples"`
	Threshold     float64 `toml:"threshold"`
	MinGapSeconds float64 `toml:"min_gap_seconds"`
}

// MinGap returns the pick separation as a duration.
func (p PickerConfig) MinGap() time.Duration {
	return time.Duration(p.MinGapSeconds * float64(time.Second))
}

// OutputConfig chooses the report format.
type OutputConfig struct {
	Format string `toml:"format"` // "table" or "json"
	Path   string `toml:"path"`   // optional CSV file
}

// Default returns the built-in configuration: the IRIS data center, station
// IU.ANMO.00.BH?, a 60 s / 120 s window, and a 1-20 Hz band-pass.
func Default() Config {
	return Config{
		Archive: ArchiveConfig{
			Endpoint:       "https://service.iris.edu",
			TimeoutSeconds: 30,
		},
		Station: StationConfig{
			Network:  "IU",
			Station:  "ANMO",
			Location: "00",
			Channel:  "BH?",
		},
		Window: WindowConfig{
			PretimeSeconds:  60,
			PosttimeSeconds: 120,
		},
		Filter: FilterConfig{
			FreqMin: 1.0,
			FreqMax: 20.0,
		},
		Picker: PickerConfig{
			ModelPath:     "models/picker.onnx",
			Threshold:     0.3,
			MinGapSeconds: 1.0,
		},
		Output: OutputConfig{
			Format: "table",
		},
		LogLevel: "info",
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if
// path is non-empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Archive.Endpoint, "QUAKEPICK_ENDPOINT")
	setFloat(&cfg.Archive.TimeoutSeconds, "QUAKEPICK_TIMEOUT_SECONDS")
	setString(&cfg.Station.Network, "QUAKEPICK_NETWORK")
	setString(&cfg.Station.Station, "QUAKEPICK_STATION")
	setString(&cfg.Station.Location, "QUAKEPICK_LOCATION")
	setString(&cfg.Station.Channel, "QUAKEPICK_CHANNEL")
	setFloat(&cfg.Window.PretimeSeconds, "QUAKEPICK_PRETIME")
	setFloat(&cfg.Window.PosttimeSeconds, "QUAKEPICK_POSTTIME")
	setFloat(&cfg.Filter.FreqMin, "QUAKEPICK_FREQMIN")
	setFloat(&cfg.Filter.FreqMax, "QUAKEPICK_FREQMAX")
	setString(&cfg.Picker.ModelPath, "QUAKEPICK_MODEL_PATH")
	setString(&cfg.Picker.LibraryPath, "QUAKEPICK_LIBRARY_PATH")
	setInt(&cfg.Picker.WindowSamples, "QUAKEPICK_WINDOW_SAMPLES")
	setFloat(&cfg.Picker.Threshold, "QUAKEPICK_THRESHOLD")
	setFloat(&cfg.Picker.MinGapSeconds, "QUAKEPICK_MIN_GAP")
	setString(&cfg.Output.Format, "QUAKEPICK_OUTPUT")
	setString(&cfg.Output.Path, "QUAKEPICK_OUTPUT_PATH")
	setString(&cfg.LogLevel, "QUAKEPICK_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
