package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mktide/quakepick/internal/archive"
	"github.com/mktide/quakepick/internal/archive/fdsn"
	"github.com/mktide/quakepick/internal/config"
	"github.com/mktide/quakepick/internal/logging"
	"github.com/mktide/quakepick/internal/output"
	"github.com/mktide/quakepick/internal/picker"
	"github.com/mktide/quakepick/internal/picks"
	"github.com/mktide/quakepick/internal/pipeline"
	"github.com/mktide/quakepick/internal/stream"
)

type rootFlags struct {
	configPath string
	endpoint   string
	timeout    float64

	network  string
	station  string
	location string
	channel  string

	pretime  float64
	posttime float64
	freqMin  float64
	freqMax  float64

	modelPath     string
	libraryPath   string
	windowSamples int
	threshold     float64

	jsonOut bool
	outPath string

	logLevel string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "quakepick EVENT_ID",
		Short: "Pick seismic phase arrivals for one catalog event",
		Long: "quakepick downloads three-component waveform data for a catalog event\n" +
			"from an FDSN archive, conditions it, runs a local ONNX phase-picker\n" +
			"model, and prints the detected P and S arrivals.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "configuration file path")
	f.StringVar(&flags.endpoint, "endpoint", "", "FDSN service endpoint")
	f.Float64Var(&flags.timeout, "timeout", 0, "archive request timeout in seconds")
	f.StringVar(&flags.network, "network", "", "network code")
	f.StringVar(&flags.station, "station", "", "station code")
	f.StringVar(&flags.location, "location", "", "location code")
	f.StringVar(&flags.channel, "channel", "", "channel pattern (wildcards allowed)")
	f.Float64Var(&flags.pretime, "pretime", 0, "seconds of data before the origin")
	f.Float64Var(&flags.posttime, "posttime", 0, "seconds of data after the origin")
	f.Float64Var(&flags.freqMin, "freqmin", 0, "band-pass low corner in Hz")
	f.Float64Var(&flags.freqMax, "freqmax", 0, "band-pass high corner in Hz")
	f.StringVar(&flags.modelPath, "model", "", "path to the ONNX picker model")
	f.StringVar(&flags.libraryPath, "onnx-library", "", "path to the ONNX Runtime shared library")
	f.IntVar(&flags.windowSamples, "window-samples", 0, "model window length when the model declares it dynamic")
	f.Float64Var(&flags.threshold, "threshold", 0, "minimum pick probability")
	f.BoolVar(&flags.jsonOut, "json", false, "write picks as NDJSON instead of a table")
	f.StringVarP(&flags.outPath, "out", "o", "", "also write picks to a CSV file")
	f.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, eventID string, flags rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg, flags)

	logging.Init(cfg.Output.Format == "json", logging.ParseLevel(cfg.LogLevel))

	client := fdsn.New(cfg.Archive.Endpoint, fdsn.WithTimeout(cfg.Archive.Timeout()))

	engine, err := picker.NewONNX(picker.Config{
		ModelPath:     cfg.Picker.ModelPath,
		LibraryPath:   cfg.Picker.LibraryPath,
		WindowSamples: cfg.Picker.WindowSamples,
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	extractor := &picks.Extractor{
		Threshold: cfg.Picker.Threshold,
		MinGap:    cfg.Picker.MinGap(),
	}

	p := pipeline.New(client, engine, extractor, buildWriter(cfg), pipeline.Options{
		Pretime:  cfg.Window.Pretime(),
		Posttime: cfg.Window.Posttime(),
		Condition: stream.Options{
			FreqMin: cfg.Filter.FreqMin,
			FreqMax: cfg.Filter.FreqMax,
		},
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sel := archive.Selector{
		Network:  cfg.Station.Network,
		Station:  cfg.Station.Station,
		Location: cfg.Station.Location,
		Channel:  cfg.Station.Channel,
	}
	if _, err := p.Run(ctx, eventID, sel); err != nil {
		return fmt.Errorf("pick event %s: %w", eventID, err)
	}
	return nil
}

// applyFlags layers explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags rootFlags) {
	set := cmd.Flags().Changed
	if set("endpoint") {
		cfg.Archive.Endpoint = flags.endpoint
	}
	if set("timeout") {
		cfg.Archive.TimeoutSeconds = flags.timeout
	}
	if set("network") {
		cfg.Station.Network = flags.network
	}
	if set("station") {
		cfg.Station.Station = flags.station
	}
	if set("location") {
		cfg.Station.Location = flags.location
	}
	if set("channel") {
		cfg.Station.Channel = flags.channel
	}
	if set("pretime") {
		cfg.Window.PretimeSeconds = flags.pretime
	}
	if set("posttime") {
		cfg.Window.PosttimeSeconds = flags.posttime
	}
	if set("freqmin") {
		cfg.Filter.FreqMin = flags.freqMin
	}
	if set("freqmax") {
		cfg.Filter.FreqMax = flags.freqMax
	}
	if set("model") {
		cfg.Picker.ModelPath = flags.modelPath
	}
	if set("onnx-library") {
		cfg.Picker.LibraryPath = flags.libraryPath
	}
	if set("window-samples") {
		cfg.Picker.WindowSamples = flags.windowSamples
	}
	if set("threshold") {
		cfg.Picker.Threshold = flags.threshold
	}
	if set("json") && flags.jsonOut {
		cfg.Output.Format = "json"
	}
	if set("out") {
		cfg.Output.Path = flags.outPath
	}
	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
}

// buildWriter assembles the report writer stack from the output settings.
func buildWriter(cfg config.Config) output.Writer {
	var w output.Writer
	if cfg.Output.Format == "json" {
		w = output.NewNDJSON(os.Stdout)
	} else {
		w = output.NewTable(os.Stdout)
	}
	if cfg.Output.Path != "" {
		w = output.Multi(w, output.NewCSV(cfg.Output.Path))
	}
	return w
}
