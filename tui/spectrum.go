package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/scopetrainer/analysis"
	"github.com/jrwynneiii/scopetrainer/render"
	"github.com/navidys/tvxwidgets"
)

const (
	// spectrumFloor matches the dB floor of analysis.Spectrum; the plot
	// shows dB above it because the widget expects non-negative data.
	spectrumFloor  = 120
	spectrumPoints = 256
)

func newSpectrumPlot() *tvxwidgets.Plot {
	p := tvxwidgets.NewPlot()
	p.SetMarker(tvxwidgets.PlotMarkerBraille)
	p.SetBorder(true)
	p.SetTitle("Spectrum (dB above floor)")
	return p
}

// updateSpectrum plots one line per trace in the frame.
func updateSpectrum(p *tvxwidgets.Plot, f render.Frame) {
	var (
		data   [][]float64
		colors []tcell.Color
	)
	for _, tr := range f.Traces {
		bins := analysis.Spectrum(tr.Voltages, tr.SampleRate)
		if len(bins) == 0 {
			continue
		}
		vals := make([]float64, len(bins))
		for i, b := range bins {
			vals[i] = b.DB + spectrumFloor
			if vals[i] < 0 {
				vals[i] = 0
			}
		}
		data = append(data, peakHold(vals, spectrumPoints))
		colors = append(colors, tcell.GetColor(tr.Color))
	}
	if len(data) == 0 {
		data = [][]float64{{0, 0}}
		colors = []tcell.Color{tcell.ColorGray}
	}
	p.SetLineColor(colors)
	p.SetData(data)
}

// peakHold shrinks vals to at most n points, keeping the largest value of
// each bucket so narrow peaks survive.
func peakHold(vals []float64, n int) []float64 {
	if n <= 0 || len(vals) <= n {
		return vals
	}
	out := make([]float64, n)
	for i := range out {
		lo := i * len(vals) / n
		hi := (i + 1) * len(vals) / n
		peak := vals[lo]
		for _, v := range vals[lo+1 : hi] {
			if v > peak {
				peak = v
			}
		}
		out[i] = peak
	}
	return out
}
