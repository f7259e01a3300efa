package model

import "time"

// Pick is a discrete detected phase arrival derived from the engine's
// probability curves.
type Pick struct {
	Phase       string // "P" or "S"
	Time        time.Time
	Probability float64
	SampleIndex int
	Source      string // dotted station identifier "NET.STA.LOC"
}
