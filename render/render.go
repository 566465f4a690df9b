package render

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/scopetrainer/analysis"
	"github.com/jrwynneiii/scopetrainer/scope"
)

const (
	DefaultWidth      = 980
	DefaultHeight     = 640
	DefaultMinSamples = 1000

	GridColor = "#3c3c3c"
	AxisColor = "#8a8a8a"
)

// Sampler is the waveform source a Canvas draws from.
type Sampler interface {
	Sample(kind scope.Waveform, t, amplitude, frequency, phase, dc, noiseStdDev float64, difficulty scope.Difficulty) float64
}

// Canvas is the fixed logical drawing area. Surfaces scale it to whatever
// physical size they have.
type Canvas struct {
	Width      float64
	Height     float64
	MinSamples int
	MaxSamples int
}

func NewCanvas(width, height float64, minSamples, maxSamples int) Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if minSamples < DefaultMinSamples {
		minSamples = DefaultMinSamples
	}
	if maxSamples < 0 {
		maxSamples = 0
	}
	if maxSamples > 0 && maxSamples < minSamples {
		maxSamples = minSamples
	}
	return Canvas{Width: width, Height: height, MinSamples: minSamples, MaxSamples: maxSamples}
}

type Trace struct {
	ChannelID  int
	Color      string
	Points     []Point
	Voltages   []float64
	SampleRate float64
}

// Frame is everything one redraw needs, in canvas coordinates. The grid
// slices include both borders, so they hold divisions+1 entries.
type Frame struct {
	Width          float64
	Height         float64
	VerticalGrid   []float64
	HorizontalGrid []float64
	AxisX          float64
	AxisY          float64
	Traces         []Trace
}

// snap puts a gridline on a half pixel so a 1px stroke covers exactly one
// pixel column. Lines that would fall off the far edge are pulled back in.
func snap(pos, limit float64) float64 {
	p := math.Round(pos) + 0.5
	if p > limit {
		p = limit - 0.5
	}
	return p
}

// SampleCount is the number of points a trace gets for the given view. The
// cap only trims the rate-driven count; the floor always wins.
func (c Canvas) SampleCount(shared scope.SharedSettings, view scope.ViewSettings) int {
	total := view.SecondsPerDiv * float64(shared.HorizontalDivisions)
	n := int(math.Floor(shared.SampleRate * total))
	if c.MaxSamples > 0 && n > c.MaxSamples {
		n = c.MaxSamples
	}
	if n < c.MinSamples {
		n = c.MinSamples
	}
	if n < 2 {
		n = 2
	}
	return n
}

// Layout computes the grid, axes and traces for one redraw. It keeps no
// state, so calling it again on every settings change is always safe.
func (c Canvas) Layout(shared scope.SharedSettings, view scope.ViewSettings, sampler Sampler) Frame {
	shared = shared.Normalize()
	if view.VoltsPerDiv <= 0 || view.SecondsPerDiv <= 0 {
		log.Debugf("[render] non-positive scale %v V/div %v s/div, using defaults", view.VoltsPerDiv, view.SecondsPerDiv)
		def := scope.DefaultView(shared)
		if view.VoltsPerDiv <= 0 {
			view.VoltsPerDiv = def.VoltsPerDiv
		}
		if view.SecondsPerDiv <= 0 {
			view.SecondsPerDiv = def.SecondsPerDiv
		}
	}

	w, h := c.Width, c.Height
	hd, vd := shared.HorizontalDivisions, shared.VerticalDivisions
	pxPerDiv := h / float64(vd)

	f := Frame{
		Width:  w,
		Height: h,
		AxisX:  w / 2,
		AxisY:  h/2 - (view.VoltageOffset/view.VoltsPerDiv)*pxPerDiv,
	}
	for i := 0; i <= hd; i++ {
		f.VerticalGrid = append(f.VerticalGrid, snap(float64(i)*w/float64(hd), w))
	}
	for j := 0; j <= vd; j++ {
		f.HorizontalGrid = append(f.HorizontalGrid, snap(float64(j)*h/float64(vd), h))
	}

	n := c.SampleCount(shared, view)
	total := view.SecondsPerDiv * float64(hd)
	rate := float64(n-1) / total

	for _, ch := range shared.Channels {
		if !ch.Enabled {
			continue
		}
		volts := make([]float64, n)
		for i := range volts {
			t := float64(i)/float64(n-1)*total + view.TimeOffset
			volts[i] = sampler.Sample(ch.Waveform, t, ch.Amplitude, ch.Frequency, ch.Phase, ch.DC, ch.NoiseStdDev, shared.Difficulty)
		}
		if view.BandwidthLimitHz > 0 {
			volts = analysis.BandwidthLimit(volts, rate, view.BandwidthLimitHz)
		}

		pts := make([]Point, n)
		for i, v := range volts {
			pts[i] = Point{
				X: float64(i) / float64(n-1) * w,
				Y: h/2 - ((v-view.VoltageOffset)/view.VoltsPerDiv)*pxPerDiv,
			}
		}
		f.Traces = append(f.Traces, Trace{
			ChannelID:  ch.ID,
			Color:      ch.Color,
			Points:     pts,
			Voltages:   volts,
			SampleRate: rate,
		})
	}
	log.Debugf("[render] layout %d traces, %d samples each", len(f.Traces), n)
	return f
}

// Draw replays a frame onto a surface: grid, then axes, then traces in
// ascending channel order so CH3 ends up on top.
func Draw(s Surface, f Frame) {
	s.Clear()
	grid := Stroke{Kind: GridStroke, Color: GridColor, Width: 1}
	for _, x := range f.VerticalGrid {
		s.Line(x, 0, x, f.Height, grid)
	}
	for _, y := range f.HorizontalGrid {
		s.Line(0, y, f.Width, y, grid)
	}

	axis := Stroke{Kind: AxisStroke, Color: AxisColor, Width: 1}
	s.Line(f.AxisX, 0, f.AxisX, f.Height, axis)
	s.Line(0, f.AxisY, f.Width, f.AxisY, axis)

	for _, tr := range f.Traces {
		s.Polyline(tr.Points, Stroke{Kind: TraceStroke, Color: tr.Color, Width: 1.5})
	}
}

// Render is Layout followed by Draw.
func (c Canvas) Render(s Surface, shared scope.SharedSettings, view scope.ViewSettings, sampler Sampler) Frame {
	f := c.Layout(shared, view, sampler)
	Draw(s, f)
	return f
}
