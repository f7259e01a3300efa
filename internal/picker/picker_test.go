package picker

import (
	"math"
	"testing"

	"github.com/mktide/quakepick/internal/model"
)

func TestZScore(t *testing.T) {
	out := zscore([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	// mean 5, std 2.
	want := []float32{-1.5, -0.5, -0.5, -0.5, 0, 0, 1, 2}
	for i := range want {
		if math.Abs(float64(out[i]-want[i])) > 1e-6 {
			t.Fatalf("zscore[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestZScoreFlatChannel(t *testing.T) {
	out := zscore([]float64{3, 3, 3, 3})
	for i, v := range out {
		if v != 0 {
			t.Fatalf("flat channel zscore[%d] = %v, want 0", i, v)
		}
	}
}

func TestInterleaveColumnRoundTrip(t *testing.T) {
	channels := [][]float32{
		{1, 2, 3},
		{10, 20, 30},
		{100, 200, 300},
	}
	flat := interleave(channels)
	// Sample-major: all three channels of sample 0 first.
	wantHead := []float32{1, 10, 100}
	for i := range wantHead {
		if flat[i] != wantHead[i] {
			t.Fatalf("flat[%d] = %v, want %v", i, flat[i], wantHead[i])
		}
	}
	for c := range channels {
		col := column(flat, 3, c)
		for i := range col {
			if col[i] != float64(channels[c][i]) {
				t.Fatalf("column %d sample %d = %v, want %v", c, i, col[i], channels[c][i])
			}
		}
	}
}

func TestCheckStream(t *testing.T) {
	good := model.Stream{
		{Channel: "BHZ", Data: make([]float64, 100)},
		{Channel: "BHN", Data: make([]float64, 100)},
		{Channel: "BHE", Data: make([]float64, 100)},
	}
	if err := checkStream(good, 100); err != nil {
		t.Fatalf("checkStream: %v", err)
	}

	if err := checkStream(good[:2], 100); err == nil {
		t.Fatal("expected error for two-channel stream")
	}

	short := model.Stream{good[0], good[1], {Channel: "BHE", Data: make([]float64, 90)}}
	if err := checkStream(short, 100); err == nil {
		t.Fatal("expected error for short channel")
	}
}
