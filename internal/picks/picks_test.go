package picks

import (
	"testing"
	"time"

	"github.com/mktide/quakepick/internal/model"
)

var pickT0 = time.Date(2019, 7, 6, 3, 18, 53, 0, time.UTC)

func pickStream(n int) model.Stream {
	st := make(model.Stream, 3)
	for i, cha := range []string{"BHZ", "BHN", "BHE"} {
		st[i] = model.Segment{
			Network:    "IU",
			Station:    "ANMO",
			Location:   "00",
			Channel:    cha,
			SampleRate: 20.0,
			StartTime:  pickT0,
			Data:       make([]float64, n),
		}
	}
	return st
}

// curve builds an n-sample zero curve with triangular bumps peaking at the
// given indices.
func curve(n int, peaks map[int]float64) []float64 {
	c := make([]float64, n)
	for idx, height := range peaks {
		for d := -4; d <= 4; d++ {
			i := idx + d
			if i < 0 || i >= n {
				continue
			}
			v := height * (1 - float64(absInt(d))/5)
			if v > c[i] {
				c[i] = v
			}
		}
	}
	return c
}

func TestExtractSinglePick(t *testing.T) {
	const n = 1200
	st := pickStream(n)
	c := model.Curves{
		P:          curve(n, map[int]float64{400: 0.9}),
		S:          make([]float64, n),
		SampleRate: 20.0,
		StartTime:  pickT0,
	}

	got := NewExtractor().Extract(st, c)
	if len(got) != 1 {
		t.Fatalf("got %d picks, want 1", len(got))
	}
	p := got[0]
	if p.Phase != "P" || p.SampleIndex != 400 {
		t.Fatalf("pick = %+v", p)
	}
	want := pickT0.Add(20 * time.Second) // sample 400 at 20 Hz
	if !p.Time.Equal(want) {
		t.Fatalf("pick time = %v, want %v", p.Time, want)
	}
	if p.Probability != 0.9 {
		t.Fatalf("probability = %v, want 0.9", p.Probability)
	}
	if p.Source != "IU.ANMO.00" {
		t.Fatalf("source = %q", p.Source)
	}
}

func TestExtractPAndSOrderedByTime(t *testing.T) {
	const n = 1200
	st := pickStream(n)
	c := model.Curves{
		P:          curve(n, map[int]float64{300: 0.8}),
		S:          curve(n, map[int]float64{500: 0.7}),
		SampleRate: 20.0,
	}

	got := NewExtractor().Extract(st, c)
	if len(got) != 2 {
		t.Fatalf("got %d picks, want 2", len(got))
	}
	if got[0].Phase != "P" || got[1].Phase != "S" {
		t.Fatalf("phases = %s, %s", got[0].Phase, got[1].Phase)
	}
	if !got[0].Time.Before(got[1].Time) {
		t.Fatal("picks not in time order")
	}
}

func TestExtractBelowThresholdIgnored(t *testing.T) {
	const n = 600
	st := pickStream(n)
	c := model.Curves{
		P:          curve(n, map[int]float64{200: 0.2}),
		S:          make([]float64, n),
		SampleRate: 20.0,
	}
	if got := NewExtractor().Extract(st, c); len(got) != 0 {
		t.Fatalf("got %d picks, want 0", len(got))
	}
}

func TestExtractMaskGatesPicks(t *testing.T) {
	const n = 600
	st := pickStream(n)
	mask := make([]float64, n)
	for i := 100; i < 300; i++ {
		mask[i] = 1
	}
	c := model.Curves{
		P:          curve(n, map[int]float64{200: 0.9, 450: 0.9}),
		S:          make([]float64, n),
		Mask:       mask,
		SampleRate: 20.0,
	}

	got := NewExtractor().Extract(st, c)
	if len(got) != 1 {
		t.Fatalf("got %d picks, want 1 (the masked-out one dropped)", len(got))
	}
	if got[0].SampleIndex != 200 {
		t.Fatalf("kept pick at %d, want 200", got[0].SampleIndex)
	}
}

func TestExtractMinGapSuppressesWeaker(t *testing.T) {
	const n = 600
	st := pickStream(n)
	// Two distinct above-threshold runs 10 samples apart (0.5 s at 20 Hz),
	// inside the 1 s minimum gap: only the stronger survives.
	p := make([]float64, n)
	p[200] = 0.6
	p[210] = 0.9
	c := model.Curves{P: p, S: make([]float64, n), SampleRate: 20.0}

	got := NewExtractor().Extract(st, c)
	if len(got) != 1 {
		t.Fatalf("got %d picks, want 1", len(got))
	}
	if got[0].SampleIndex != 210 {
		t.Fatalf("kept pick at %d, want the stronger at 210", got[0].SampleIndex)
	}
}
