package render

type Point struct {
	X, Y float64
}

type StrokeKind int

const (
	GridStroke StrokeKind = iota
	AxisStroke
	TraceStroke
)

// Stroke tells a surface how to paint a line. Color is the opaque token
// carried by the channel config (or a fixed grid/axis color).
type Stroke struct {
	Kind  StrokeKind
	Color string
	Width float64
}

// Surface is anything the renderer can draw onto. Implementations only
// receive drawing commands; the renderer never reads pixels back.
type Surface interface {
	Clear()
	Line(x0, y0, x1, y1 float64, s Stroke)
	Polyline(pts []Point, s Stroke)
}

type CommandKind int

const (
	ClearCmd CommandKind = iota
	LineCmd
	PolylineCmd
)

type Command struct {
	Kind   CommandKind
	Points []Point
	Stroke Stroke
}

// Recorder is a Surface that keeps every command it receives.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) Clear() {
	r.Commands = append(r.Commands, Command{Kind: ClearCmd})
}

func (r *Recorder) Line(x0, y0, x1, y1 float64, s Stroke) {
	r.Commands = append(r.Commands, Command{
		Kind:   LineCmd,
		Points: []Point{{x0, y0}, {x1, y1}},
		Stroke: s,
	})
}

func (r *Recorder) Polyline(pts []Point, s Stroke) {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	r.Commands = append(r.Commands, Command{Kind: PolylineCmd, Points: cp, Stroke: s})
}

// Count returns how many commands of kind k were recorded.
func (r *Recorder) Count(k CommandKind) int {
	n := 0
	for _, c := range r.Commands {
		if c.Kind == k {
			n++
		}
	}
	return n
}
