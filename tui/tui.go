package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/scopetrainer/config"
	"github.com/jrwynneiii/scopetrainer/render"
	"github.com/rivo/tview"
)

var LogOut *tview.TextView

// Deps is what both views draw with.
type Deps struct {
	Canvas  render.Canvas
	Sampler render.Sampler
	Conf    config.TuiConf
}

func newLogView(app *tview.Application) *tview.TextView {
	LogOut = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)
	LogOut.SetChangedFunc(func() {
		LogOut.ScrollToEnd()
		app.Draw()
	})
	LogOut.SetBorder(true).SetTitle("Log Output")
	log.SetOutput(LogOut)
	return LogOut
}

// refreshLoop re-lays the scope out every refreshMs so noisy traces look
// live. A non-positive interval leaves redraws to input events only.
func refreshLoop(ctx context.Context, app *tview.Application, refreshMs int, fn func()) {
	if refreshMs <= 0 {
		return
	}
	ticker := time.NewTicker(time.Duration(refreshMs) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.QueueUpdateDraw(fn)
		}
	}
}

func run(app *tview.Application, root tview.Primitive, refreshMs int, refresh func()) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go refreshLoop(ctx, app, refreshMs, refresh)
	return app.SetRoot(root, true).EnableMouse(true).Run()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// floatField adds an input that only reports values that parse. Half-typed
// numbers such as "-" or "1e" are ignored until they are complete.
func floatField(form *tview.Form, label string, value float64, changed func(float64)) {
	form.AddInputField(label, formatFloat(value), 14, tview.InputFieldFloat, func(text string) {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return
		}
		changed(v)
	})
}

func intField(form *tview.Form, label string, value int, changed func(int)) {
	form.AddInputField(label, strconv.Itoa(value), 6, tview.InputFieldInteger, func(text string) {
		v, err := strconv.Atoi(text)
		if err != nil {
			return
		}
		changed(v)
	})
}

func indexOf[T comparable](items []T, v T) int {
	for i, it := range items {
		if it == v {
			return i
		}
	}
	return 0
}

// sectionPages puts each form behind an entry of a list, since all the
// forms together do not fit in a terminal.
func sectionPages(names []string, items []tview.Primitive) (*tview.List, *tview.Pages) {
	pages := tview.NewPages()
	list := tview.NewList().ShowSecondaryText(false)
	for i, name := range names {
		pages.AddPage(name, items[i], true, i == 0)
		list.AddItem(name, "", 0, nil)
	}
	list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		pages.SwitchToPage(mainText)
	})
	list.SetBorder(true).SetTitle("Sections")
	return list, pages
}
