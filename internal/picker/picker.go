// Package picker runs the phase-picker neural network over a standardized
// three-component stream and exposes its per-sample probability curves.
package picker

import (
	"errors"
	"fmt"
	"math"

	"github.com/mktide/quakepick/internal/model"
)

// Sentinel errors for the inference boundary.
var (
	// ErrModelLoad means the model artifact is missing, unreadable, or has
	// an unexpected tensor layout.
	ErrModelLoad = errors.New("model load failed")

	// ErrInference means the engine failed on a well-formed standardized
	// stream. It is propagated, not interpreted.
	ErrInference = errors.New("inference failed")
)

// Engine annotates a standardized stream with phase probability curves.
// The stream must hold exactly three channels of WindowSamples samples in
// (Z, N, E) order.
type Engine interface {
	Annotate(st model.Stream) (model.Curves, error)
	WindowSamples() int
	Close() error
}

// checkStream validates the standardized-stream contract before inference.
func checkStream(st model.Stream, window int) error {
	if len(st) != 3 {
		return fmt.Errorf("stream has %d channels, want 3", len(st))
	}
	for _, seg := range st {
		if len(seg.Data) != window {
			return fmt.Errorf("channel %s has %d samples, want %d", seg.Channel, len(seg.Data), window)
		}
	}
	return nil
}

// zscore returns (x - mean) / std as float32, the amplitude conditioning
// the model was trained with. A flat channel maps to zeros.
func zscore(x []float64) []float32 {
	n := float64(len(x))
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= n

	var variance float64
	for _, v := range x {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / n)

	out := make([]float32, len(x))
	if std == 0 {
		return out
	}
	for i, v := range x {
		out[i] = float32((v - mean) / std)
	}
	return out
}

// interleave packs per-channel series into one [window*channels] buffer in
// sample-major order, matching the model's [1, window, 3] input layout.
func interleave(channels [][]float32) []float32 {
	if len(channels) == 0 {
		return nil
	}
	window := len(channels[0])
	out := make([]float32, window*len(channels))
	for c, ch := range channels {
		for i, v := range ch {
			out[i*len(channels)+c] = v
		}
	}
	return out
}

// column extracts channel col from a flat [window*width] sample-major
// buffer as float64.
func column(flat []float32, width, col int) []float64 {
	n := len(flat) / width
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(flat[i*width+col])
	}
	return out
}
