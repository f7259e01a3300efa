package main

import (
	"testing"

	"github.com/mktide/quakepick/internal/config"
)

func TestRootCommandRequiresEventID(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an argument error without EVENT_ID")
	}
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{
		"--station", "COLA",
		"--pretime", "30",
		"--freqmax", "10",
		"--json",
	}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := config.Default()
	applyFlags(cmd, &cfg, rootFlags{
		station:  "COLA",
		pretime:  30,
		freqMax:  10,
		jsonOut:  true,
		location: "ignored", // not set on the command line
	})

	if cfg.Station.Station != "COLA" {
		t.Fatalf("station = %s", cfg.Station.Station)
	}
	if cfg.Window.PretimeSeconds != 30 {
		t.Fatalf("pretime = %v", cfg.Window.PretimeSeconds)
	}
	if cfg.Filter.FreqMax != 10 {
		t.Fatalf("freqmax = %v", cfg.Filter.FreqMax)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("format = %s", cfg.Output.Format)
	}
	// Flags that were not passed leave the config alone.
	if cfg.Station.Location != "00" {
		t.Fatalf("location = %s", cfg.Station.Location)
	}
	if cfg.Window.PosttimeSeconds != 120 {
		t.Fatalf("posttime = %v", cfg.Window.PosttimeSeconds)
	}
}
