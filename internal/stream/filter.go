package stream

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Detrend removes the mean from data in place. This must run before
// filtering: a DC offset at the filter input shows up as a long transient
// in the output.
func Detrend(data []float64) {
	if len(data) == 0 {
		return
	}
	floats.AddConst(-stat.Mean(data, nil), data)
}

// filterOrder is the Butterworth prototype order of the band-pass.
const filterOrder = 4

// BandPass applies an order-4 Butterworth band-pass filter to data in
// place: one causal forward pass through a cascade of second-order
// sections. lo and hi are the corner frequencies in Hz, fs the sample
// rate; hi must stay below the Nyquist frequency.
func BandPass(data []float64, lo, hi, fs float64) error {
	sections, err := butterBandpass(lo, hi, fs)
	if err != nil {
		return err
	}
	for i := range sections {
		sections[i].apply(data)
	}
	return nil
}

// biquad is one second-order section with a0 normalized to 1.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// apply runs the section over x in place (direct form II transposed).
func (q *biquad) apply(x []float64) {
	var s1, s2 float64
	for i, v := range x {
		y := q.b0*v + s1
		s1 = q.b1*v - q.a1*y + s2
		s2 = q.b2*v - q.a2*y
		x[i] = y
	}
}

// butterBandpass designs the digital filter: analog Butterworth low-pass
// prototype, low-pass→band-pass transform, bilinear transform, then
// conjugate pole pairs grouped into second-order sections. The band-pass
// zeros land at z=+1 and z=-1, so every section's numerator is (1, 0, -1)
// with the overall gain folded into the first section.
func butterBandpass(lo, hi, fs float64) ([]biquad, error) {
	nyquist := fs / 2
	if lo <= 0 || hi <= lo || hi >= nyquist {
		return nil, fmt.Errorf("band-pass corners %g-%g Hz invalid for %g Hz sampling", lo, hi, fs)
	}

	// Prototype poles on the left half of the unit circle.
	proto := make([]complex128, 0, filterOrder)
	for k := 1; k <= filterOrder; k++ {
		theta := math.Pi * float64(2*k+filterOrder-1) / float64(2*filterOrder)
		proto = append(proto, cmplx.Exp(complex(0, theta)))
	}

	// Pre-warped corner frequencies (rad/s) for the bilinear transform.
	fs2 := 2 * fs
	w1 := fs2 * math.Tan(math.Pi*lo/fs)
	w2 := fs2 * math.Tan(math.Pi*hi/fs)
	bw := w2 - w1
	w0sq := complex(w1*w2, 0)

	// Low-pass to band-pass: each prototype pole splits into a pair.
	poles := make([]complex128, 0, 2*filterOrder)
	for _, p := range proto {
		pb := p * complex(bw/2, 0)
		d := cmplx.Sqrt(pb*pb - w0sq)
		poles = append(poles, pb+d, pb-d)
	}
	gain := math.Pow(bw, filterOrder)

	// Bilinear transform. The four zeros at s=0 map to z=+1; four more at
	// z=-1 make up the degree difference.
	den := complex(1, 0)
	zpoles := make([]complex128, 0, len(poles))
	for _, p := range poles {
		den *= complex(fs2, 0) - p
		zpoles = append(zpoles, (complex(fs2, 0)+p)/(complex(fs2, 0)-p))
	}
	gain *= real(complex(math.Pow(fs2, filterOrder), 0) / den)

	sections := make([]biquad, 0, filterOrder)
	for _, p := range zpoles {
		if imag(p) < 0 {
			continue // conjugate partner carries the pair
		}
		sections = append(sections, biquad{
			b0: 1, b1: 0, b2: -1,
			a1: -2 * real(p),
			a2: real(p)*real(p) + imag(p)*imag(p),
		})
	}
	if len(sections) != filterOrder {
		return nil, fmt.Errorf("pole pairing failed: %d sections from %d poles", len(sections), len(zpoles))
	}

	sections[0].b0 *= gain
	sections[0].b2 *= gain
	return sections, nil
}
