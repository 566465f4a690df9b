package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const bannerHeight = 20

var background = color.RGBA{0x10, 0x12, 0x14, 0xff}

// Raster is an in-memory Surface backed by an RGBA image. Canvas
// coordinates are scaled to the image size; an optional banner strip sits
// above the screen area.
type Raster struct {
	Banner string

	img    *image.RGBA
	z      *vector.Rasterizer
	top    int
	scaleX float64
	scaleY float64
}

// NewRaster makes a width x height screen for canvas c. A non-empty banner
// adds a text strip on top of the screen.
func NewRaster(c Canvas, width, height int, banner string) *Raster {
	top := 0
	if banner != "" {
		top = bannerHeight
	}
	return &Raster{
		Banner: banner,
		img:    image.NewRGBA(image.Rect(0, 0, width, height+top)),
		z:      vector.NewRasterizer(width, height+top),
		top:    top,
		scaleX: float64(width) / c.Width,
		scaleY: float64(height) / c.Height,
	}
}

func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	if r.Banner == "" {
		return
	}
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(6, bannerHeight-6),
	}
	d.DrawString(r.Banner)
}

func (r *Raster) Line(x0, y0, x1, y1 float64, s Stroke) {
	r.z.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	r.segment(r.px(x0, y0), r.px(x1, y1), s.Width)
	r.flush(s.Color)
}

func (r *Raster) Polyline(pts []Point, s Stroke) {
	if len(pts) < 2 {
		return
	}
	r.z.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	prev := r.px(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		cur := r.px(p.X, p.Y)
		r.segment(prev, cur, s.Width)
		prev = cur
	}
	r.flush(s.Color)
}

func (r *Raster) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Raster) px(x, y float64) Point {
	return Point{X: x * r.scaleX, Y: y*r.scaleY + float64(r.top)}
}

// segment adds a width-wide quad around a->b. All quads wind the same way
// relative to their direction, so overlaps at the joints add up instead of
// cancelling.
func (r *Raster) segment(a, b Point, width float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		dx, l = 1, 1
	}
	if width <= 0 {
		width = 1
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	r.z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	r.z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	r.z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	r.z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	r.z.ClosePath()
}

func (r *Raster) flush(token string) {
	r.z.DrawOp = draw.Over
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(ParseColor(token)), image.Point{})
}

// ParseColor turns a channel color token into a color. Unparseable tokens
// fall back to white so a bad token still draws something visible.
func ParseColor(token string) color.Color {
	c, err := colorful.Hex(token)
	if err != nil {
		return color.White
	}
	return c
}
