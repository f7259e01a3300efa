package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Archive.Endpoint != "https://service.iris.edu" {
		t.Fatalf("endpoint = %s", cfg.Archive.Endpoint)
	}
	if cfg.Station.Network != "IU" || cfg.Station.Station != "ANMO" ||
		cfg.Station.Location != "00" || cfg.Station.Channel != "BH?" {
		t.Fatalf("station = %+v", cfg.Station)
	}
	if cfg.Window.Pretime() != 60*time.Second || cfg.Window.Posttime() != 120*time.Second {
		t.Fatalf("window = %+v", cfg.Window)
	}
	if cfg.Filter.FreqMin != 1.0 || cfg.Filter.FreqMax != 20.0 {
		t.Fatalf("filter = %+v", cfg.Filter)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quakepick.toml")
	body := `
log_level = "debug"

[station]
network = "CI"
station = "PASC"

[window]
pretime_seconds = 30
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Station.Network != "CI" || cfg.Station.Station != "PASC" {
		t.Fatalf("station = %+v", cfg.Station)
	}
	// Untouched keys keep their defaults.
	if cfg.Station.Channel != "BH?" {
		t.Fatalf("channel = %s", cfg.Station.Channel)
	}
	if cfg.Window.Pretime() != 30*time.Second {
		t.Fatalf("pretime = %v", cfg.Window.Pretime())
	}
	if cfg.Window.Posttime() != 120*time.Second {
		t.Fatalf("posttime = %v", cfg.Window.Posttime())
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %s", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QUAKEPICK_STATION", "COLA")
	t.Setenv("QUAKEPICK_PRETIME", "90")
	t.Setenv("QUAKEPICK_WINDOW_SAMPLES", "6000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Station.Station != "COLA" {
		t.Fatalf("station = %s", cfg.Station.Station)
	}
	if cfg.Window.Pretime() != 90*time.Second {
		t.Fatalf("pretime = %v", cfg.Window.Pretime())
	}
	if cfg.Picker.WindowSamples != 6000 {
		t.Fatalf("window samples = %d", cfg.Picker.WindowSamples)
	}
}

func TestEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("QUAKEPICK_PRETIME", "soon")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Pretime() != 60*time.Second {
		t.Fatalf("pretime = %v, want default", cfg.Window.Pretime())
	}
}
