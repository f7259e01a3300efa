package model

import "time"

// Curves holds the per-sample probability traces produced by the picker
// engine for one standardized stream. P and S always have the stream's
// window length; Mask is nil when the model exposes no detection output.
type Curves struct {
	P    []float64
	S    []float64
	Mask []float64

	SampleRate float64
	StartTime  time.Time
}
