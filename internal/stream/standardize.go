package stream

import "github.com/mktide/quakepick/internal/model"

// Standardize adjusts every channel of st to the model's fixed window of n
// samples. Channels shorter than n are right-padded with zeros: the
// recorded signal keeps its original start position, so pick sample
// indices map to absolute time without any offset bookkeeping. Channels
// with n or more samples pass through unchanged (the requested window
// normally matches the model window already; only an archive underrun
// needs padding). Re-applying Standardize to its own output is a no-op.
func Standardize(st model.Stream, n int) model.Stream {
	out := make(model.Stream, len(st))
	copy(out, st)
	for i, seg := range out {
		if len(seg.Data) >= n {
			continue
		}
		padded := make([]float64, n)
		copy(padded, seg.Data)
		out[i].Data = padded
	}
	return out
}
