// Package archive defines the interface to a remote seismic data archive.
// Implementations live in subpackages; the pipeline receives a Client
// explicitly so tests can substitute a fake.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/mktide/quakepick/internal/model"
)

// Sentinel errors for archive-side failures. Callers match with errors.Is.
var (
	// ErrEventNotFound means the archive has no event (or origin) for the
	// requested identifier.
	ErrEventNotFound = errors.New("event not found")

	// ErrDataUnavailable means the archive returned no waveform data for
	// the request, or a required orientation channel is missing.
	ErrDataUnavailable = errors.New("waveform data unavailable")
)

// Client is the archive capability consumed by the pipeline.
type Client interface {
	// LookupEvent resolves an event identifier to its preferred origin
	// time. A single remote call; failures are terminal for the request.
	LookupEvent(ctx context.Context, eventID string) (time.Time, error)

	// GetWaveforms fetches raw, possibly fragmented waveform segments for
	// the selector over [start, end]. The exact instants go on the wire.
	GetWaveforms(ctx context.Context, sel Selector, start, end time.Time) ([]model.Segment, error)
}

// Selector identifies which sensor stream to request. Channel may carry
// FDSN wildcards ('?' for one character, '*' for any run).
type Selector struct {
	Network  string
	Station  string
	Location string
	Channel  string
}

// String returns the dotted "NET.STA.LOC.CHA" form for logs and errors.
func (s Selector) String() string {
	return s.Network + "." + s.Station + "." + s.Location + "." + s.Channel
}
