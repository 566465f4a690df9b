package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/scopetrainer/render"
	"github.com/rivo/tview"
)

// ScopeView is a tview primitive that paints the last laid-out frame as
// braille. Layout happens elsewhere; Draw only scales the frame to whatever
// rectangle tview hands it.
type ScopeView struct {
	*tview.Box
	canvas render.Canvas
	frame  render.Frame
}

func NewScopeView(c render.Canvas) *ScopeView {
	return &ScopeView{
		Box:    tview.NewBox(),
		canvas: c,
	}
}

func (v *ScopeView) SetFrame(f render.Frame) {
	v.frame = f
}

func (v *ScopeView) Frame() render.Frame {
	return v.frame
}

func (v *ScopeView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, w, h := v.GetInnerRect()
	if w <= 0 || h <= 0 {
		return
	}
	b := NewBraille(v.canvas, w, h)
	render.Draw(b, v.frame)
	b.Draw(screen, x, y)
}
