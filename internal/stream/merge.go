package stream

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/mktide/quakepick/internal/model"
)

// Merge collapses fragmented archive segments into one contiguous segment
// per channel. Segments sharing a channel are placed on a common sample
// grid; where they overlap, the later segment's samples win, and interior
// gaps are filled by linear interpolation between the bracketing samples.
// Segments of one channel must agree on sample rate.
func Merge(segments []model.Segment) ([]model.Segment, error) {
	groups := map[string][]model.Segment{}
	var order []string
	for _, seg := range segments {
		id := seg.SourceID()
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], seg)
	}
	sort.Strings(order)

	merged := make([]model.Segment, 0, len(order))
	for _, id := range order {
		seg, err := mergeChannel(groups[id])
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", id, err)
		}
		merged = append(merged, seg)
	}
	return merged, nil
}

func mergeChannel(group []model.Segment) (model.Segment, error) {
	if len(group) == 1 {
		return group[0], nil
	}

	sr := group[0].SampleRate
	for _, seg := range group[1:] {
		if seg.SampleRate != sr {
			return model.Segment{}, fmt.Errorf("sample rate mismatch: %g vs %g", sr, seg.SampleRate)
		}
	}

	sort.SliceStable(group, func(i, j int) bool {
		return group[i].StartTime.Before(group[j].StartTime)
	})

	start := group[0].StartTime
	end := group[0].EndTime()
	for _, seg := range group[1:] {
		if e := seg.EndTime(); e.After(end) {
			end = e
		}
	}

	n := int(math.Round(end.Sub(start).Seconds()*sr)) + 1
	data := make([]float64, n)
	for i := range data {
		data[i] = math.NaN()
	}

	for _, seg := range group {
		off := int(math.Round(seg.StartTime.Sub(start).Seconds() * sr))
		copy(data[off:off+len(seg.Data)], seg.Data)
	}

	if err := fillGaps(data); err != nil {
		return model.Segment{}, err
	}

	out := group[0]
	out.StartTime = start
	out.Data = data
	return out, nil
}

// fillGaps replaces NaN runs in place with values linearly interpolated
// between the nearest real samples on either side.
func fillGaps(data []float64) error {
	for i := 0; i < len(data); i++ {
		if !math.IsNaN(data[i]) {
			continue
		}
		j := i
		for j < len(data) && math.IsNaN(data[j]) {
			j++
		}
		if i == 0 || j == len(data) {
			// Cannot happen when the grid is bounded by real samples.
			return fmt.Errorf("gap at grid edge [%d, %d)", i, j)
		}

		var pl interp.PiecewiseLinear
		if err := pl.Fit(
			[]float64{float64(i - 1), float64(j)},
			[]float64{data[i-1], data[j]},
		); err != nil {
			return err
		}
		for k := i; k < j; k++ {
			data[k] = pl.Predict(float64(k))
		}
		i = j
	}
	return nil
}
