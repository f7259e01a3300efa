// Package picks converts the engine's per-sample probability curves into
// discrete phase arrivals.
package picks

import (
	"sort"
	"time"

	"github.com/mktide/quakepick/internal/model"
)

// Default extraction parameters.
const (
	DefaultThreshold = 0.3
	DefaultMinGap    = time.Second
	maskThreshold    = 0.5
)

// Extractor turns probability curves into picks.
type Extractor struct {
	// Threshold is the minimum probability for a pick.
	Threshold float64

	// MinGap is the minimum separation between two picks of the same
	// phase; the weaker of two closer picks is suppressed.
	MinGap time.Duration
}

// NewExtractor returns an Extractor with the default threshold and gap.
func NewExtractor() *Extractor {
	return &Extractor{Threshold: DefaultThreshold, MinGap: DefaultMinGap}
}

// Extract scans the P and S curves for threshold crossings, refines each
// crossing to its local probability maximum, drops candidates outside the
// detection mask, and maps sample indices to absolute times using the
// stream's start and sample rate. Picks come back in time order.
func (e *Extractor) Extract(st model.Stream, c model.Curves) []model.Pick {
	if len(st) == 0 {
		return nil
	}
	source := st[0].Network + "." + st[0].Station + "." + st[0].Location
	gap := int(e.MinGap.Seconds() * c.SampleRate)

	var out []model.Pick
	for _, phase := range []struct {
		name  string
		curve []float64
	}{
		{"P", c.P},
		{"S", c.S},
	} {
		for _, cand := range e.phasePicks(phase.curve, c.Mask, gap) {
			out = append(out, model.Pick{
				Phase:       phase.name,
				Time:        st[0].SampleTime(cand.index),
				Probability: cand.prob,
				SampleIndex: cand.index,
				Source:      source,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

type candidate struct {
	index int
	prob  float64
}

// phasePicks finds the local maximum of every contiguous above-threshold
// run, gates it by the mask, then greedily keeps the strongest candidates
// subject to the minimum gap (in samples).
func (e *Extractor) phasePicks(curve, mask []float64, gap int) []candidate {
	var cands []candidate
	for i := 0; i < len(curve); i++ {
		if curve[i] < e.Threshold {
			continue
		}
		best := candidate{index: i, prob: curve[i]}
		j := i
		for j < len(curve) && curve[j] >= e.Threshold {
			if curve[j] > best.prob {
				best = candidate{index: j, prob: curve[j]}
			}
			j++
		}
		if mask == nil || mask[best.index] >= maskThreshold {
			cands = append(cands, best)
		}
		i = j
	}
	return suppress(cands, gap)
}

// suppress keeps the strongest candidates whose indices stay at least gap
// samples apart, returned in index order.
func suppress(cands []candidate, gap int) []candidate {
	if gap <= 0 || len(cands) < 2 {
		return cands
	}

	byProb := append([]candidate(nil), cands...)
	sort.Slice(byProb, func(i, j int) bool {
		return byProb[i].prob > byProb[j].prob
	})

	var kept []candidate
	for _, c := range byProb {
		ok := true
		for _, k := range kept {
			if absInt(c.index-k.index) < gap {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].index < kept[j].index
	})
	return kept
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
