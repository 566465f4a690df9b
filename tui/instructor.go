package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/scopetrainer/broadcast"
	"github.com/jrwynneiii/scopetrainer/scope"
	"github.com/navidys/tvxwidgets"
	"github.com/rivo/tview"
)

const publishTimeout = 2 * time.Second

// Instructor owns the shared settings. Every edit produces a new snapshot
// that is published right away.
type Instructor struct {
	deps   Deps
	pub    broadcast.Publisher
	shared scope.SharedSettings

	scopeView *ScopeView
	spectrum  *tvxwidgets.Plot
	answers   *AnswerTableData
	table     *tview.Table
	root      tview.Primitive
}

func NewInstructor(deps Deps, pub broadcast.Publisher, initial scope.SharedSettings) *Instructor {
	ui := &Instructor{
		deps:      deps,
		pub:       pub,
		shared:    initial.Normalize(),
		scopeView: NewScopeView(deps.Canvas),
		spectrum:  newSpectrumPlot(),
		answers:   &AnswerTableData{},
	}
	ui.table = tview.NewTable().SetContent(ui.answers)
	ui.table.SetSelectable(false, false).SetBorder(true).SetTitle("Answer Key")
	ui.scopeView.SetBorder(true).SetTitle("Scope")

	names := []string{"Global"}
	forms := []tview.Primitive{ui.globalForm()}
	for i := range ui.shared.Channels {
		names = append(names, ui.shared.Channels[i].Name())
		forms = append(forms, ui.channelForm(i))
	}
	list, pages := sectionPages(names, forms)

	leftCol := tview.NewFlex().SetDirection(tview.FlexRow)
	leftCol.AddItem(list, 6, 0, true)
	leftCol.AddItem(pages, 0, 1, false)

	rightCol := tview.NewFlex().SetDirection(tview.FlexRow)
	rightCol.AddItem(ui.scopeView, 0, 4, false)
	rightCol.AddItem(ui.spectrum, 0, 2, false)
	rightCol.AddItem(ui.table, 9, 0, false)

	page := tview.NewFlex().SetDirection(tview.FlexColumn)
	page.AddItem(leftCol, 40, 0, true)
	page.AddItem(rightCol, 0, 1, false)
	ui.root = page

	ui.refresh()
	return ui
}

func (ui *Instructor) Shared() scope.SharedSettings {
	return ui.shared
}

// Publish sends the current snapshot, e.g. once at startup so late
// joiners get the lesson before the first edit.
func (ui *Instructor) Publish() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := ui.pub.Publish(ctx, ui.shared); err != nil {
		log.Errorf("Could not publish settings v%d: %v", ui.shared.Version, err)
		return
	}
	log.Debugf("[instructor] published settings v%d", ui.shared.Version)
}

func (ui *Instructor) apply(fn func(*scope.SharedSettings)) {
	ui.shared = ui.shared.Edit(fn)
	ui.Publish()
	ui.refresh()
}

func (ui *Instructor) refresh() {
	view := scope.DefaultView(ui.shared)
	f := ui.deps.Canvas.Layout(ui.shared, view, ui.deps.Sampler)
	ui.scopeView.SetFrame(f)
	ui.answers.Update(ui.shared, f)
	updateSpectrum(ui.spectrum, f)
}

func (ui *Instructor) globalForm() *tview.Form {
	s := ui.shared
	form := tview.NewForm()

	difficulties := make([]string, len(scope.Difficulties))
	for i, d := range scope.Difficulties {
		difficulties[i] = string(d)
	}
	form.AddDropDown("Difficulty", difficulties, indexOf(scope.Difficulties, s.Difficulty), func(text string, index int) {
		if index < 0 || scope.Difficulty(text) == ui.shared.Difficulty {
			return
		}
		ui.apply(func(n *scope.SharedSettings) { n.Difficulty = scope.Difficulty(text) })
	})
	form.AddCheckbox("Locked", s.Locked, func(checked bool) {
		ui.apply(func(n *scope.SharedSettings) { n.Locked = checked })
	})
	floatField(form, "Time base (s/div)", s.TimeBase, func(v float64) {
		if v > 0 {
			ui.apply(func(n *scope.SharedSettings) { n.TimeBase = v })
		}
	})
	floatField(form, "Sample rate (Hz)", s.SampleRate, func(v float64) {
		if v > 0 {
			ui.apply(func(n *scope.SharedSettings) { n.SampleRate = v })
		}
	})
	intField(form, "Horizontal divs", s.HorizontalDivisions, func(v int) {
		if v >= 1 {
			ui.apply(func(n *scope.SharedSettings) { n.HorizontalDivisions = v })
		}
	})
	intField(form, "Vertical divs", s.VerticalDivisions, func(v int) {
		if v >= 1 {
			ui.apply(func(n *scope.SharedSettings) { n.VerticalDivisions = v })
		}
	})
	form.SetBorder(true).SetTitle("Global")
	return form
}

func (ui *Instructor) channelForm(i int) *tview.Form {
	ch := ui.shared.Channels[i]
	form := tview.NewForm()
	edit := func(fn func(*scope.ChannelConfig)) {
		ui.apply(func(n *scope.SharedSettings) { fn(&n.Channels[i]) })
	}

	waveforms := make([]string, len(scope.Waveforms))
	for j, w := range scope.Waveforms {
		waveforms[j] = string(w)
	}
	form.AddCheckbox("Enabled", ch.Enabled, func(checked bool) {
		edit(func(c *scope.ChannelConfig) { c.Enabled = checked })
	})
	form.AddDropDown("Waveform", waveforms, indexOf(scope.Waveforms, ch.Waveform), func(text string, index int) {
		if index < 0 || scope.Waveform(text) == ui.shared.Channels[i].Waveform {
			return
		}
		edit(func(c *scope.ChannelConfig) { c.Waveform = scope.Waveform(text) })
	})
	floatField(form, "Amplitude (V)", ch.Amplitude, func(v float64) {
		edit(func(c *scope.ChannelConfig) { c.Amplitude = v })
	})
	floatField(form, "Frequency (Hz)", ch.Frequency, func(v float64) {
		edit(func(c *scope.ChannelConfig) { c.Frequency = v })
	})
	floatField(form, "Phase (rad)", ch.Phase, func(v float64) {
		edit(func(c *scope.ChannelConfig) { c.Phase = v })
	})
	floatField(form, "DC offset (V)", ch.DC, func(v float64) {
		edit(func(c *scope.ChannelConfig) { c.DC = v })
	})
	floatField(form, "Noise (V rms)", ch.NoiseStdDev, func(v float64) {
		if v >= 0 {
			edit(func(c *scope.ChannelConfig) { c.NoiseStdDev = v })
		}
	})
	form.AddInputField("Color", ch.Color, 9, nil, func(text string) {
		if len(text) == 7 && text[0] == '#' {
			edit(func(c *scope.ChannelConfig) { c.Color = text })
		}
	})
	form.SetBorder(true).SetTitle(fmt.Sprintf("%s settings", ch.Name()))
	return form
}

// Run blocks until the user quits.
func (ui *Instructor) Run() error {
	app := tview.NewApplication()
	root := ui.root
	if ui.deps.Conf.EnableLogOutput {
		flex := tview.NewFlex().SetDirection(tview.FlexRow)
		flex.AddItem(ui.root, 0, 5, true)
		flex.AddItem(newLogView(app), 0, 1, false)
		root = flex
	}
	ui.Publish()
	return run(app, root, ui.deps.Conf.RefreshMs, ui.refresh)
}

// StartInstructor runs the instructor UI and exits the process if it
// cannot start.
func StartInstructor(deps Deps, pub broadcast.Publisher, initial scope.SharedSettings) {
	if err := NewInstructor(deps, pub, initial).Run(); err != nil {
		log.Fatalf("Could not start UI: %v", err)
	}
}
