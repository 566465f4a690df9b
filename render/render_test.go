package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/jrwynneiii/scopetrainer/noise"
	"github.com/jrwynneiii/scopetrainer/scope"
	"github.com/jrwynneiii/scopetrainer/waveform"
)

func testCanvas() Canvas {
	return NewCanvas(980, 640, 1000, 0)
}

func testSampler() Sampler {
	return waveform.New(noise.New(1))
}

func onlyChannel(id int) scope.SharedSettings {
	s := scope.DefaultSettings()
	for i := range s.Channels {
		s.Channels[i].Enabled = s.Channels[i].ID == id
	}
	return s
}

func TestGridSnapping(t *testing.T) {
	f := testCanvas().Layout(scope.DefaultSettings(), scope.DefaultView(scope.DefaultSettings()), testSampler())

	if len(f.VerticalGrid) != 11 {
		t.Fatalf("vertical gridlines = %d, want 11", len(f.VerticalGrid))
	}
	if f.VerticalGrid[5] != 490.5 {
		t.Errorf("gridline 5 at x=%v, want 490.5", f.VerticalGrid[5])
	}
	if f.VerticalGrid[0] != 0.5 {
		t.Errorf("first gridline at %v", f.VerticalGrid[0])
	}
	if f.VerticalGrid[10] != 979.5 {
		t.Errorf("last gridline at %v, want clamped to 979.5", f.VerticalGrid[10])
	}
	for _, y := range f.HorizontalGrid {
		if y-math.Floor(y) != 0.5 {
			t.Errorf("horizontal gridline %v not on a half pixel", y)
		}
	}
	if len(f.HorizontalGrid) != 9 {
		t.Errorf("horizontal gridlines = %d, want 9", len(f.HorizontalGrid))
	}
}

func TestAxesFollowVoltageOffset(t *testing.T) {
	shared := scope.DefaultSettings()
	view := scope.DefaultView(shared)
	f := testCanvas().Layout(shared, view, testSampler())
	if f.AxisX != 490 || f.AxisY != 320 {
		t.Fatalf("axes at (%v, %v)", f.AxisX, f.AxisY)
	}

	view.VoltageOffset = 1
	view.VoltsPerDiv = 0.5
	f = testCanvas().Layout(shared, view, testSampler())
	// 1 V at 0.5 V/div is two divisions of 80 px.
	if f.AxisY != 320-160 {
		t.Errorf("offset axis at y=%v, want 160", f.AxisY)
	}
}

func TestSampleCount(t *testing.T) {
	c := testCanvas()
	shared := scope.DefaultSettings()
	view := scope.DefaultView(shared)

	// 100 kHz * 10 ms = 1000 samples, equal to the floor.
	if n := c.SampleCount(shared, view); n != 1000 {
		t.Errorf("n = %d, want 1000", n)
	}
	view.SecondsPerDiv = 1e-5
	if n := c.SampleCount(shared, view); n != 1000 {
		t.Errorf("short window n = %d, want floor 1000", n)
	}
	view.SecondsPerDiv = 0.01
	if n := c.SampleCount(shared, view); n != 10000 {
		t.Errorf("long window n = %d, want 10000", n)
	}
	c.MaxSamples = 4000
	if n := c.SampleCount(shared, view); n != 4000 {
		t.Errorf("capped n = %d, want 4000", n)
	}
	c.MaxSamples = 500
	if n := c.SampleCount(shared, view); n != 1000 {
		t.Errorf("cap below floor n = %d, want 1000", n)
	}
}

func TestTinyCapKeepsFloor(t *testing.T) {
	c := NewCanvas(980, 640, 1000, 1)
	if c.MaxSamples != 1000 {
		t.Errorf("MaxSamples = %d, want raised to 1000", c.MaxSamples)
	}
	f := c.Layout(onlyChannel(1), scope.DefaultView(scope.DefaultSettings()), testSampler())
	tr := f.Traces[0]
	if len(tr.Points) != 1000 {
		t.Fatalf("points = %d", len(tr.Points))
	}
	if p := tr.Points[0]; math.IsNaN(p.X) || math.IsNaN(p.Y) {
		t.Errorf("first point %v", p)
	}
	if tr.SampleRate <= 0 {
		t.Errorf("sample rate %v", tr.SampleRate)
	}
}

func TestTraceMapping(t *testing.T) {
	shared := onlyChannel(1)
	shared.Channels[0].Amplitude = 2
	shared.Channels[0].Frequency = 250 // one period in 4 ms, 10 ms visible
	view := scope.DefaultView(shared)

	f := testCanvas().Layout(shared, view, testSampler())
	if len(f.Traces) != 1 {
		t.Fatalf("traces = %d", len(f.Traces))
	}
	tr := f.Traces[0]
	n := len(tr.Points)
	if tr.Points[0].X != 0 || tr.Points[n-1].X != 980 {
		t.Errorf("x range %v..%v", tr.Points[0].X, tr.Points[n-1].X)
	}
	// sin(0) = 0 V sits on the centre line.
	if math.Abs(tr.Points[0].Y-320) > 1e-9 {
		t.Errorf("first point y = %v, want 320", tr.Points[0].Y)
	}
	for i, v := range tr.Voltages {
		want := 320 - v/1*80
		if math.Abs(tr.Points[i].Y-want) > 1e-9 {
			t.Fatalf("point %d y = %v, want %v", i, tr.Points[i].Y, want)
		}
	}
}

func TestTimeOffsetShiftsSamples(t *testing.T) {
	shared := onlyChannel(1)
	view := scope.DefaultView(shared)
	view.TimeOffset = 1.0 / (4 * 1000) // quarter period of the 1 kHz default

	f := testCanvas().Layout(shared, view, testSampler())
	if v := f.Traces[0].Voltages[0]; math.Abs(v-2) > 1e-9 {
		t.Errorf("first sample = %v, want peak 2", v)
	}
}

func TestDisabledChannelDrawsNothing(t *testing.T) {
	shared := scope.DefaultSettings()
	for i := range shared.Channels {
		shared.Channels[i].Enabled = false
	}
	var rec Recorder
	f := testCanvas().Render(&rec, shared, scope.DefaultView(shared), testSampler())
	if len(f.Traces) != 0 {
		t.Errorf("traces = %d", len(f.Traces))
	}
	if n := rec.Count(PolylineCmd); n != 0 {
		t.Errorf("polylines = %d, want 0", n)
	}
	// grid + 2 axes are still there
	if n := rec.Count(LineCmd); n != 11+9+2 {
		t.Errorf("lines = %d", n)
	}
}

func TestTraceOrderAscendingID(t *testing.T) {
	shared := scope.DefaultSettings()
	shared.Channels[2].Enabled = true
	shared.Channels[0].Enabled = true
	var rec Recorder
	testCanvas().Render(&rec, shared, scope.DefaultView(shared), testSampler())

	var colors []string
	for _, c := range rec.Commands {
		if c.Kind == PolylineCmd {
			colors = append(colors, c.Stroke.Color)
		}
	}
	want := []string{shared.Channels[0].Color, shared.Channels[2].Color}
	if len(colors) != 2 || colors[0] != want[0] || colors[1] != want[1] {
		t.Errorf("draw order %v, want %v", colors, want)
	}
}

func TestRenderIsRepeatable(t *testing.T) {
	shared := scope.DefaultSettings()
	view := scope.DefaultView(shared)
	c := testCanvas()
	var a, b Recorder
	c.Render(&a, shared, view, testSampler())
	c.Render(&b, shared, view, testSampler())
	if len(a.Commands) != len(b.Commands) {
		t.Fatalf("command counts differ: %d vs %d", len(a.Commands), len(b.Commands))
	}
	for i := range a.Commands {
		pa, pb := a.Commands[i].Points, b.Commands[i].Points
		if len(pa) != len(pb) {
			t.Fatalf("command %d point counts differ", i)
		}
		for j := range pa {
			if pa[j] != pb[j] {
				t.Fatalf("command %d point %d differs", i, j)
			}
		}
	}
}

func TestBadScaleFallsBack(t *testing.T) {
	shared := scope.DefaultSettings()
	view := scope.DefaultView(shared)
	view.VoltsPerDiv = 0
	view.SecondsPerDiv = -1
	f := testCanvas().Layout(shared, view, testSampler())
	for _, p := range f.Traces[0].Points {
		if math.IsInf(p.Y, 0) || math.IsNaN(p.Y) {
			t.Fatal("non-finite point with zero volts/div")
		}
	}
}

func TestRasterExport(t *testing.T) {
	shared := scope.DefaultSettings()
	c := testCanvas()
	r := NewRaster(c, 490, 320, "Ada Lovelace  3B  2026-10-19")
	c.Render(r, shared, scope.DefaultView(shared), testSampler())

	b := r.Image().Bounds()
	if b.Dx() != 490 || b.Dy() != 320+bannerHeight {
		t.Fatalf("image %v", b)
	}
	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != b {
		t.Errorf("decoded bounds %v", img.Bounds())
	}
	// Some pixel in the screen area must carry the CH1 trace color.
	want := ParseColor(shared.Channels[0].Color)
	wr, wg, wb, _ := want.RGBA()
	found := false
	for y := bannerHeight; y < b.Dy() && !found; y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r == wr && g == wg && bl == wb {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no pixel with the trace color")
	}
}

func TestParseColorFallback(t *testing.T) {
	r, g, b, _ := ParseColor("not-a-color").RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("fallback = %x %x %x", r, g, b)
	}
}
