// Package stream implements the waveform conditioning pipeline: merging
// fragmented segments, detrending, band-pass filtering, canonical (Z, N, E)
// channel ordering, and window-length standardization.
package stream

import (
	"fmt"

	"github.com/mktide/quakepick/internal/archive"
	"github.com/mktide/quakepick/internal/model"
)

// Default band-pass corner frequencies in Hz.
const (
	DefaultFreqMin = 1.0
	DefaultFreqMax = 20.0
)

// Options controls signal conditioning.
type Options struct {
	FreqMin float64
	FreqMax float64
}

// DefaultOptions returns the standard 1-20 Hz conditioning options.
func DefaultOptions() Options {
	return Options{FreqMin: DefaultFreqMin, FreqMax: DefaultFreqMax}
}

// orientations is the fixed channel order the picker model expects. The
// order is a hard contract: swapping it silently changes which axis the
// model treats as vertical.
var orientations = [3]byte{'Z', 'N', 'E'}

// Condition turns raw archive segments into a conditioned stream: merge
// per channel, remove the mean, band-pass filter, then select exactly one
// segment per orientation in (Z, N, E) order. Detrending always precedes
// filtering. A missing orientation is ErrDataUnavailable.
func Condition(raw []model.Segment, opts Options) (model.Stream, error) {
	merged, err := Merge(raw)
	if err != nil {
		return nil, err
	}

	for i := range merged {
		Detrend(merged[i].Data)
		if err := BandPass(merged[i].Data, opts.FreqMin, opts.FreqMax, merged[i].SampleRate); err != nil {
			return nil, fmt.Errorf("filter %s: %w", merged[i].SourceID(), err)
		}
	}

	out := make(model.Stream, 0, len(orientations))
	for _, o := range orientations {
		seg, ok := selectOrientation(merged, o)
		if !ok {
			return nil, fmt.Errorf("%w: no %c component after conditioning", archive.ErrDataUnavailable, o)
		}
		out = append(out, seg)
	}
	return out, nil
}

// selectOrientation returns the first merged segment sensing the given
// axis. Merge emits segments in sorted channel order, so the choice is
// deterministic when several instruments match.
func selectOrientation(segments []model.Segment, orientation byte) (model.Segment, bool) {
	for _, seg := range segments {
		if seg.Orientation() == orientation {
			return seg, true
		}
	}
	return model.Segment{}, false
}
