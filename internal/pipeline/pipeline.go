// Package pipeline sequences one picking run: fetch waveforms for an
// event, condition and standardize them, run the picker engine, extract
// picks, and write the report. Single-shot: the first failure aborts the
// run with no partial output.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mktide/quakepick/internal/archive"
	"github.com/mktide/quakepick/internal/model"
	"github.com/mktide/quakepick/internal/output"
	"github.com/mktide/quakepick/internal/picker"
	"github.com/mktide/quakepick/internal/picks"
	"github.com/mktide/quakepick/internal/stream"
)

// Stage identifies where a run is (or where it stopped).
type Stage string

const (
	StageFetching      Stage = "fetching"
	StageConditioning  Stage = "conditioning"
	StageStandardizing Stage = "standardizing"
	StageInferring     Stage = "inferring"
	StageExtracting    Stage = "extracting"
	StageDone          Stage = "done"
	StageFailed        Stage = "failed"
)

// Default offsets of the requested window around the origin time.
const (
	DefaultPretime  = 60 * time.Second
	DefaultPosttime = 120 * time.Second
)

// Options controls the requested time window and signal conditioning.
type Options struct {
	Pretime   time.Duration
	Posttime  time.Duration
	Condition stream.Options
}

// DefaultOptions returns the reference window (60 s before, 120 s after)
// and filter settings.
func DefaultOptions() Options {
	return Options{
		Pretime:   DefaultPretime,
		Posttime:  DefaultPosttime,
		Condition: stream.DefaultOptions(),
	}
}

// Result is the outcome of a completed run.
type Result struct {
	Stage  Stage
	Origin time.Time
	Stream model.Stream
	Picks  []model.Pick
}

// Pipeline holds the injected collaborators for one or more runs. It keeps
// no state between runs beyond the last observed stage.
type Pipeline struct {
	client    archive.Client
	engine    picker.Engine
	extractor *picks.Extractor
	out       output.Writer
	opts      Options

	stage Stage
}

// New creates a Pipeline from its collaborators. Every dependency is
// explicit so tests can substitute fakes.
func New(client archive.Client, engine picker.Engine, ext *picks.Extractor, out output.Writer, opts Options) *Pipeline {
	return &Pipeline{
		client:    client,
		engine:    engine,
		extractor: ext,
		out:       out,
		opts:      opts,
	}
}

// Stage returns the stage reached by the most recent run.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Run executes the pipeline for one event. Stages advance strictly
// forward; the first error moves the run to Failed and is returned
// wrapped with the stage that produced it.
func (p *Pipeline) Run(ctx context.Context, eventID string, sel archive.Selector) (Result, error) {
	p.transition(StageFetching)
	origin, err := p.client.LookupEvent(ctx, eventID)
	if err != nil {
		return p.fail("lookup event %q: %w", eventID, err)
	}

	start := origin.Add(-p.opts.Pretime)
	end := origin.Add(p.opts.Posttime)
	slog.Info("fetching waveforms", "event", eventID, "selector", sel.String(),
		"origin", origin.UTC(), "start", start.UTC(), "end", end.UTC())

	raw, err := p.client.GetWaveforms(ctx, sel, start, end)
	if err != nil {
		return p.fail("fetch %s: %w", sel, err)
	}

	p.transition(StageConditioning)
	st, err := stream.Condition(raw, p.opts.Condition)
	if err != nil {
		return p.fail("condition %s: %w", sel, err)
	}

	p.transition(StageStandardizing)
	st = stream.Standardize(st, p.engine.WindowSamples())

	p.transition(StageInferring)
	curves, err := p.engine.Annotate(st)
	if err != nil {
		return p.fail("annotate %s: %w", sel, err)
	}

	p.transition(StageExtracting)
	found := p.extractor.Extract(st, curves)
	if err := p.out.WritePicks(st, found); err != nil {
		return p.fail("write report: %w", err)
	}

	p.transition(StageDone)
	slog.Info("pipeline done", "event", eventID, "picks", len(found))
	return Result{Stage: StageDone, Origin: origin, Stream: st, Picks: found}, nil
}

func (p *Pipeline) transition(s Stage) {
	slog.Debug("stage", "from", p.stage, "to", s)
	p.stage = s
}

func (p *Pipeline) fail(format string, args ...any) (Result, error) {
	err := fmt.Errorf(format, args...)
	slog.Error("pipeline failed", "stage", p.stage, "error", err)
	p.stage = StageFailed
	return Result{Stage: StageFailed}, err
}
