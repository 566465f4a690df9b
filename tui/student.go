package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/scopetrainer/broadcast"
	"github.com/jrwynneiii/scopetrainer/checker"
	"github.com/jrwynneiii/scopetrainer/scope"
	"github.com/jrwynneiii/scopetrainer/session"
	"github.com/navidys/tvxwidgets"
	"github.com/rivo/tview"
)

// Student renders the instructor's signals with the student's own view
// settings and grades the typed measurements.
type Student struct {
	deps      Deps
	store     *session.Store
	exportDir string

	shared scope.SharedSettings
	view   scope.ViewSettings
	result checker.Result

	scopeView   *ScopeView
	results     *ResultTableData
	resultTable *tview.Table
	gauge       *tvxwidgets.UtilModeGauge
	status      *tview.TextView
	actions     *tview.Form
	inputs      []*tview.InputField
	root        tview.Primitive
}

func NewStudent(deps Deps, store *session.Store, initial scope.SharedSettings, exportDir string) *Student {
	initial = initial.Normalize()
	ui := &Student{
		deps:      deps,
		store:     store,
		exportDir: exportDir,
		shared:    initial,
		view:      store.Load(initial),
		scopeView: NewScopeView(deps.Canvas),
		results:   &ResultTableData{},
		status:    tview.NewTextView().SetDynamicColors(true),
	}
	ui.scopeView.SetBorder(true).SetTitle("Scope")
	ui.resultTable = tview.NewTable().SetContent(ui.results)
	ui.resultTable.SetSelectable(false, false).SetBorder(true).SetTitle("Check Results")

	ui.gauge = tvxwidgets.NewUtilModeGauge()
	ui.gauge.SetLabel("Failed fields: ")
	ui.gauge.SetLabelColor(tcell.ColorLightSkyBlue)
	ui.gauge.SetWarnPercentage(1)
	ui.gauge.SetCritPercentage(50)
	ui.gauge.SetEmptyColor(tcell.ColorBlack)
	ui.gauge.SetBorder(false)

	names := []string{"View", "Student"}
	forms := []tview.Primitive{ui.viewForm(), ui.identityForm()}
	for id := 1; id <= scope.NumChannels; id++ {
		names = append(names, fmt.Sprintf("CH%d", id))
		forms = append(forms, ui.measurementForm(id))
	}
	list, pages := sectionPages(names, forms)

	ui.actions = tview.NewForm().
		AddButton("Check", ui.Check).
		AddButton("Export", func() {
			if _, err := ui.Export(); err != nil {
				log.Errorf("Could not export: %v", err)
			}
		})

	leftCol := tview.NewFlex().SetDirection(tview.FlexRow)
	leftCol.AddItem(list, 7, 0, true)
	leftCol.AddItem(pages, 0, 1, false)
	leftCol.AddItem(ui.actions, 3, 0, false)

	resultBox := tview.NewFlex().SetDirection(tview.FlexRow)
	resultBox.AddItem(ui.resultTable, 0, 1, false)
	resultBox.AddItem(ui.gauge, 1, 0, false)
	resultBox.AddItem(ui.status, 1, 0, false)

	rightCol := tview.NewFlex().SetDirection(tview.FlexRow)
	rightCol.AddItem(ui.scopeView, 0, 4, false)
	rightCol.AddItem(resultBox, 8, 0, false)

	page := tview.NewFlex().SetDirection(tview.FlexColumn)
	page.AddItem(leftCol, 40, 0, true)
	page.AddItem(rightCol, 0, 1, false)
	ui.root = page

	ui.applyLock()
	ui.refresh()
	return ui
}

func (ui *Student) View() scope.ViewSettings {
	return ui.view
}

func (ui *Student) Result() checker.Result {
	return ui.result
}

// SetShared takes a new snapshot from the instructor. Must run on the UI
// goroutine.
func (ui *Student) SetShared(s scope.SharedSettings) {
	log.Debugf("[student] received settings v%d", s.Version)
	ui.shared = s.Normalize()
	ui.applyLock()
	ui.refresh()
}

func (ui *Student) edit(fn func(*scope.ViewSettings)) {
	ui.view = ui.view.Edit(fn)
	ui.store.Save(ui.view)
	ui.refresh()
}

func (ui *Student) refresh() {
	f := ui.deps.Canvas.Layout(ui.shared, ui.view, ui.deps.Sampler)
	ui.scopeView.SetFrame(f)
}

// applyLock makes the measurement inputs and the Check button read-only
// while the instructor has the exam closed.
func (ui *Student) applyLock() {
	for _, in := range ui.inputs {
		in.SetDisabled(ui.shared.Locked)
	}
	if ui.actions != nil {
		ui.actions.GetButton(0).SetDisabled(ui.shared.Locked)
	}
	if ui.shared.Locked {
		ui.status.SetText("[red]Locked by the instructor")
	} else {
		ui.status.SetText("")
	}
}

func (ui *Student) Check() {
	if ui.shared.Locked {
		log.Warn("Check is disabled while the session is locked")
		return
	}
	ui.result = checker.Check(ui.shared, ui.view.Measurements)
	ui.results.Update(ui.shared, ui.result)
	failed, total := ui.results.Failed()
	pct := 0.0
	if total > 0 {
		pct = float64(failed) / float64(total) * 100
	}
	ui.gauge.SetValue(pct)
	log.Infof("Check: pass=%v, %d of %d fields failed", ui.result.Pass, failed, total)
}

// Export writes the current screen as a PNG into the export directory and
// returns its path.
func (ui *Student) Export() (string, error) {
	stamp := time.Now().Format("20060102-150405")
	name := fmt.Sprintf("scope-%s.png", stamp)
	if s := strings.ToLower(strings.TrimSpace(ui.view.Student.Surname)); s != "" {
		name = fmt.Sprintf("scope-%s-%s.png", strings.ReplaceAll(s, " ", "_"), stamp)
	}
	if err := os.MkdirAll(ui.exportDir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", ui.exportDir, err)
	}
	path := filepath.Join(ui.exportDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	if err := ui.deps.Canvas.Export(out, int(ui.deps.Canvas.Width), int(ui.deps.Canvas.Height), ui.shared, ui.view, ui.deps.Sampler); err != nil {
		return "", err
	}
	log.Infof("Exported scope to %s", path)
	return path, nil
}

func (ui *Student) viewForm() *tview.Form {
	v := ui.view
	form := tview.NewForm()
	floatField(form, "Volts/div", v.VoltsPerDiv, func(x float64) {
		if x > 0 {
			ui.edit(func(n *scope.ViewSettings) { n.VoltsPerDiv = x })
		}
	})
	floatField(form, "Seconds/div", v.SecondsPerDiv, func(x float64) {
		if x > 0 {
			ui.edit(func(n *scope.ViewSettings) { n.SecondsPerDiv = x })
		}
	})
	floatField(form, "Voltage offset (V)", v.VoltageOffset, func(x float64) {
		ui.edit(func(n *scope.ViewSettings) { n.VoltageOffset = x })
	})
	floatField(form, "Time offset (s)", v.TimeOffset, func(x float64) {
		ui.edit(func(n *scope.ViewSettings) { n.TimeOffset = x })
	})
	floatField(form, "BW limit (Hz, 0=off)", v.BandwidthLimitHz, func(x float64) {
		if x >= 0 {
			ui.edit(func(n *scope.ViewSettings) { n.BandwidthLimitHz = x })
		}
	})
	form.SetBorder(true).SetTitle("View")
	return form
}

func (ui *Student) identityForm() *tview.Form {
	st := ui.view.Student
	form := tview.NewForm()
	text := func(label, value string, set func(*scope.Student, string)) {
		form.AddInputField(label, value, 20, nil, func(s string) {
			ui.edit(func(n *scope.ViewSettings) { set(&n.Student, s) })
		})
	}
	text("Name", st.Name, func(s *scope.Student, v string) { s.Name = v })
	text("Surname", st.Surname, func(s *scope.Student, v string) { s.Surname = v })
	text("Class", st.ClassName, func(s *scope.Student, v string) { s.ClassName = v })
	text("Date", st.Date, func(s *scope.Student, v string) { s.Date = v })
	form.SetBorder(true).SetTitle("Student")
	return form
}

func (ui *Student) measurementForm(id int) *tview.Form {
	m := ui.view.Measurements[id]
	form := tview.NewForm()
	text := func(label, value string, set func(*scope.Measurement, string)) {
		form.AddInputField(label, value, 12, nil, func(s string) {
			ui.edit(func(n *scope.ViewSettings) {
				cur := n.Measurements[id]
				set(&cur, s)
				n.Measurements[id] = cur
			})
		})
		ui.inputs = append(ui.inputs, form.GetFormItem(form.GetFormItemCount()-1).(*tview.InputField))
	}
	text("Vmax (V)", m.VMax, func(m *scope.Measurement, v string) { m.VMax = v })
	text("Vmin (V)", m.VMin, func(m *scope.Measurement, v string) { m.VMin = v })
	text("Vpp (V)", m.VPP, func(m *scope.Measurement, v string) { m.VPP = v })
	text("Period (s)", m.Period, func(m *scope.Measurement, v string) { m.Period = v })
	text("Freq (Hz)", m.Freq, func(m *scope.Measurement, v string) { m.Freq = v })
	form.SetBorder(true).SetTitle(fmt.Sprintf("CH%d measurements", id))
	return form
}

// Run blocks until the user quits. Snapshots from sub are handed to the UI
// goroutine as they arrive.
func (ui *Student) Run(sub broadcast.Subscriber) error {
	app := tview.NewApplication()
	root := ui.root
	if ui.deps.Conf.EnableLogOutput {
		flex := tview.NewFlex().SetDirection(tview.FlexRow)
		flex.AddItem(ui.root, 0, 5, true)
		flex.AddItem(newLogView(app), 0, 1, false)
		root = flex
	}
	cancel := sub.Subscribe(func(s scope.SharedSettings) {
		app.QueueUpdateDraw(func() { ui.SetShared(s) })
	})
	defer cancel()
	return run(app, root, ui.deps.Conf.RefreshMs, ui.refresh)
}

func StartStudent(deps Deps, sub broadcast.Subscriber, store *session.Store, initial scope.SharedSettings, exportDir string) {
	if err := NewStudent(deps, store, initial, exportDir).Run(sub); err != nil {
		log.Fatalf("Could not start UI: %v", err)
	}
}
