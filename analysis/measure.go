package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Auto is what a scope's automatic measurement would report for a trace.
type Auto struct {
	VMax   float64
	VMin   float64
	VPP    float64
	Freq   float64
	Period float64
}

// Measure reads the extremes straight off the samples and the frequency off
// the spectrum. Period is +Inf when no frequency was found.
func Measure(samples []float64, sampleRate float64) Auto {
	if len(samples) == 0 {
		return Auto{Period: math.Inf(1)}
	}
	a := Auto{
		VMax: floats.Max(samples),
		VMin: floats.Min(samples),
	}
	a.VPP = a.VMax - a.VMin
	a.Freq = DominantFrequency(samples, sampleRate)
	a.Period = math.Inf(1)
	if a.Freq > 0 {
		a.Period = 1 / a.Freq
	}
	return a
}
