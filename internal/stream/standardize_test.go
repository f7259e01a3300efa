package stream

import (
	"testing"

	"github.com/mktide/quakepick/internal/model"
)

func stdStream(lengths ...int) model.Stream {
	channels := []string{"BHZ", "BHN", "BHE"}
	st := make(model.Stream, len(lengths))
	for i, n := range lengths {
		data := make([]float64, n)
		for j := range data {
			data[j] = float64(j + 1)
		}
		st[i] = model.Segment{Channel: channels[i], SampleRate: 20.0, Data: data}
	}
	return st
}

func TestStandardizePadsShortChannel(t *testing.T) {
	st := Standardize(stdStream(3000, 3600, 3600), 3600)

	if got := len(st[0].Data); got != 3600 {
		t.Fatalf("short channel padded to %d, want 3600", got)
	}
	// The signal keeps its position: original samples first, zeros after.
	if st[0].Data[2999] != 3000 {
		t.Fatalf("last real sample = %v, want 3000", st[0].Data[2999])
	}
	for i := 3000; i < 3600; i++ {
		if st[0].Data[i] != 0 {
			t.Fatalf("pad sample %d = %v, want 0", i, st[0].Data[i])
		}
	}
	// The other channels are untouched.
	for i := 1; i < 3; i++ {
		if got := len(st[i].Data); got != 3600 {
			t.Fatalf("channel %d length = %d, want 3600", i, got)
		}
		if st[i].Data[3599] != 3600 {
			t.Fatalf("channel %d tail = %v, want 3600", i, st[i].Data[3599])
		}
	}
}

func TestStandardizePassthroughWhenLongEnough(t *testing.T) {
	in := stdStream(3600, 3700, 3600)
	out := Standardize(in, 3600)
	for i := range in {
		if len(out[i].Data) != len(in[i].Data) {
			t.Fatalf("channel %d resized %d -> %d", i, len(in[i].Data), len(out[i].Data))
		}
	}
}

func TestStandardizeIdempotent(t *testing.T) {
	once := Standardize(stdStream(3000, 3600, 3500), 3600)
	twice := Standardize(once, 3600)
	for i := range once {
		if len(once[i].Data) != len(twice[i].Data) {
			t.Fatalf("channel %d changed on second pass", i)
		}
		for j := range once[i].Data {
			if once[i].Data[j] != twice[i].Data[j] {
				t.Fatalf("channel %d sample %d changed on second pass", i, j)
			}
		}
	}
}

func TestStandardizeDoesNotMutateInput(t *testing.T) {
	in := stdStream(3000, 3600, 3600)
	_ = Standardize(in, 3600)
	if len(in[0].Data) != 3000 {
		t.Fatalf("input mutated: %d samples", len(in[0].Data))
	}
}
