package model

import (
	"fmt"
	"time"
)

// Segment is one continuous run of waveform samples for a single channel.
// It is the intermediate type produced by archive clients and consumed by
// the conditioning stages.
type Segment struct {
	Network    string // SEED network code (e.g. "IU")
	Station    string // station code (e.g. "ANMO")
	Location   string // location code (e.g. "00")
	Channel    string // channel code (e.g. "BHZ")
	SampleRate float64
	StartTime  time.Time
	Data       []float64
}

// EndTime returns the time of the last sample in the segment.
func (s Segment) EndTime() time.Time {
	if len(s.Data) == 0 || s.SampleRate <= 0 {
		return s.StartTime
	}
	dt := float64(len(s.Data)-1) / s.SampleRate
	return s.StartTime.Add(time.Duration(dt * float64(time.Second)))
}

// Duration returns the time spanned by the segment's samples.
func (s Segment) Duration() time.Duration {
	return s.EndTime().Sub(s.StartTime)
}

// Orientation returns the sensing-axis letter of the channel code
// ('Z', 'N' or 'E'), or 0 when the code is empty.
func (s Segment) Orientation() byte {
	if s.Channel == "" {
		return 0
	}
	return s.Channel[len(s.Channel)-1]
}

// SourceID returns the dotted SEED identifier "NET.STA.LOC.CHA".
func (s Segment) SourceID() string {
	return fmt.Sprintf("%s.%s.%s.%s", s.Network, s.Station, s.Location, s.Channel)
}

// SampleTime returns the absolute time of sample i.
func (s Segment) SampleTime(i int) time.Time {
	return s.StartTime.Add(time.Duration(float64(i) / s.SampleRate * float64(time.Second)))
}

// Stream is an ordered collection of segments. A conditioned stream holds
// exactly three single-segment channels in (Z, N, E) order.
type Stream []Segment
