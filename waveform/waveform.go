package waveform

import (
	"math"

	"github.com/jrwynneiii/scopetrainer/noise"
	"github.com/jrwynneiii/scopetrainer/scope"
)

// sum2Peak is max|sin(x) + 0.5*sin(2x)|, reached at x = pi/3.
var sum2Peak = 3 * math.Sqrt(3) / 4

const (
	amModRatio        = 10.0
	fmDeviation       = 0.2
	fmModRatio        = 8.0
	intermediateFloor = 0.02
	advancedFloor     = 0.05
)

type Sampler struct {
	Noise *noise.Generator
}

func New(gen *noise.Generator) *Sampler {
	return &Sampler{Noise: gen}
}

// DifficultyFloor is the extra noise standard deviation added on top of a
// channel's own noise for the given difficulty.
func DifficultyFloor(d scope.Difficulty, amplitude float64) float64 {
	switch d {
	case scope.Intermediate:
		return intermediateFloor * math.Abs(amplitude)
	case scope.Advanced:
		return advancedFloor * math.Abs(amplitude)
	}
	return 0
}

// Sample returns the voltage of the given waveform at time t. With no
// channel noise on basic difficulty the result depends only on the inputs,
// except for the noise kind itself.
func (s *Sampler) Sample(kind scope.Waveform, t, amplitude, frequency, phase, dc, noiseStdDev float64, difficulty scope.Difficulty) float64 {
	v := s.shape(kind, t, amplitude, frequency, phase)
	v += dc
	if sigma := noiseStdDev + DifficultyFloor(difficulty, amplitude); sigma != 0 {
		v += s.Noise.Gaussian(sigma)
	}
	return v
}

func (s *Sampler) shape(kind scope.Waveform, t, amplitude, frequency, phase float64) float64 {
	w := 2 * math.Pi * frequency
	switch kind {
	case scope.Sine:
		return amplitude * math.Sin(w*t+phase)
	case scope.Square:
		if math.Sin(w*t+phase) >= 0 {
			return amplitude
		}
		return -amplitude
	case scope.Triangle:
		return amplitude * (4*math.Abs(cycleFraction(t, frequency, phase)-0.5) - 1)
	case scope.Saw:
		return amplitude * (2*cycleFraction(t, frequency, phase) - 1)
	case scope.Rectified:
		return amplitude * math.Max(0, math.Sin(w*t+phase))
	case scope.AM:
		env := 0.5 * (1 + math.Sin(2*math.Pi*(frequency/amModRatio)*t))
		return amplitude * env * math.Sin(w*t+phase)
	case scope.FM:
		return amplitude * math.Sin(fmPhase(t, frequency, phase))
	case scope.Sum2:
		raw := math.Sin(w*t+phase) + 0.5*math.Sin(2*w*t+2*phase)
		return amplitude * raw / sum2Peak
	case scope.Noise:
		return amplitude * s.Noise.Uniform(-1, 1)
	}
	return 0
}

// cycleFraction is the position within the current period, in [0,1).
func cycleFraction(t, frequency, phase float64) float64 {
	x := t*frequency + phase/(2*math.Pi)
	f := x - math.Floor(x)
	if f >= 1 {
		f = 0
	}
	return f
}

// fmPhase integrates the instantaneous frequency
// f + dev*(1-cos(2*pi*fm*t))/2, a raised-cosine sweep between f and f+dev.
func fmPhase(t, frequency, phase float64) float64 {
	dev := fmDeviation * frequency
	fm := frequency / fmModRatio
	if fm == 0 {
		return 2*math.Pi*frequency*t + phase
	}
	sweep := t - math.Sin(2*math.Pi*fm*t)/(2*math.Pi*fm)
	return 2*math.Pi*(frequency*t+dev/2*sweep) + phase
}
