package analysis

import (
	"github.com/charmbracelet/log"
	"github.com/racerxdl/segdsp/dsp"
)

// BandwidthLimit low-pass filters a trace the way a scope's BW limit switch
// does. The FIR group delay is removed so the result lines up with the
// input. Cutoffs at or above Nyquist leave the trace untouched.
func BandwidthLimit(samples []float64, sampleRate, cutoff float64) []float64 {
	out := make([]float64, len(samples))
	copy(out, samples)
	if len(samples) == 0 || cutoff <= 0 || sampleRate <= 0 || cutoff >= sampleRate/2 {
		return out
	}

	transition := cutoff / 4
	if floor := sampleRate / 200; transition < floor {
		transition = floor
	}
	if edge := sampleRate/2 - cutoff; transition > edge {
		transition = edge
	}
	taps := dsp.MakeLowPass(1, sampleRate, cutoff, transition)
	if len(taps) == 0 {
		return out
	}
	fir := dsp.MakeFirFilter(taps)

	// Prime the filter history with the first sample and flush it with the
	// last one so the edges do not ring down to zero.
	pre := len(taps)
	delay := (len(taps) - 1) / 2
	in := make([]complex64, 0, pre+len(samples)+delay)
	for i := 0; i < pre; i++ {
		in = append(in, complex(float32(samples[0]), 0))
	}
	for _, v := range samples {
		in = append(in, complex(float32(v), 0))
	}
	for i := 0; i < delay; i++ {
		in = append(in, complex(float32(samples[len(samples)-1]), 0))
	}

	filtered := fir.Work(in)
	if len(filtered) < pre+delay+len(samples) {
		log.Debugf("[analysis] fir returned %d samples for %d inputs, skipping bandwidth limit", len(filtered), len(in))
		return out
	}
	for i := range out {
		out[i] = float64(real(filtered[pre+delay+i]))
	}
	return out
}
