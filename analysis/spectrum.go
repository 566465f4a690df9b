package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

const floorDB = -120.0

type Bin struct {
	Freq float64
	DB   float64
}

// Spectrum returns the single-sided magnitude spectrum of samples in dB,
// with the mean removed first so DC does not swamp the plot.
func Spectrum(samples []float64, sampleRate float64) []Bin {
	coeff, n := coefficients(samples)
	if coeff == nil {
		return nil
	}
	bins := make([]Bin, len(coeff))
	for i, c := range coeff {
		mag := 2 * cmplx.Abs(c) / float64(n)
		db := floorDB
		if mag > 0 {
			db = math.Max(floorDB, 20*math.Log10(mag))
		}
		bins[i] = Bin{Freq: float64(i) * sampleRate / float64(n), DB: db}
	}
	return bins
}

// DominantFrequency is the strongest non-DC component, refined with a
// parabola through the peak bin and its neighbours. Zero means no periodic
// content was found.
func DominantFrequency(samples []float64, sampleRate float64) float64 {
	coeff, n := coefficients(samples)
	if len(coeff) < 3 {
		return 0
	}
	peak, best := 0, 0.0
	for i := 1; i < len(coeff); i++ {
		if m := cmplx.Abs(coeff[i]); m > best {
			peak, best = i, m
		}
	}
	if peak == 0 || best < 1e-9*float64(n) {
		return 0
	}
	offset := 0.0
	if peak > 1 && peak < len(coeff)-1 {
		a := cmplx.Abs(coeff[peak-1])
		b := best
		c := cmplx.Abs(coeff[peak+1])
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	return (float64(peak) + offset) * sampleRate / float64(n)
}

func coefficients(samples []float64) ([]complex128, int) {
	n := len(samples)
	if n < 2 {
		return nil, n
	}
	mean := stat.Mean(samples, nil)
	centred := make([]float64, n)
	for i, v := range samples {
		centred[i] = v - mean
	}
	fft := fourier.NewFFT(n)
	return fft.Coefficients(nil, centred), n
}
