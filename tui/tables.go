package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/scopetrainer/analysis"
	"github.com/jrwynneiii/scopetrainer/checker"
	"github.com/jrwynneiii/scopetrainer/render"
	"github.com/jrwynneiii/scopetrainer/scope"
	"github.com/rivo/tview"
)

var fieldHeaders = []string{"Vmax", "Vmin", "Vpp", "Period", "Freq"}

type answerRow struct {
	Name     string
	Color    string
	Source   string
	Expected checker.Expected
}

// AnswerTableData is the instructor's answer key: the analytic reference
// next to what the auto-measure reads off the rendered trace.
type AnswerTableData struct {
	tview.TableContentReadOnly
	rows []answerRow
}

func (a *AnswerTableData) Update(shared scope.SharedSettings, f render.Frame) {
	auto := make(map[int]analysis.Auto, len(f.Traces))
	for _, tr := range f.Traces {
		auto[tr.ChannelID] = analysis.Measure(tr.Voltages, tr.SampleRate)
	}

	a.rows = a.rows[:0]
	for _, ch := range shared.EnabledChannels() {
		a.rows = append(a.rows, answerRow{
			Name:     ch.Name(),
			Color:    ch.Color,
			Source:   "key",
			Expected: checker.Reference(ch),
		})
		if m, ok := auto[ch.ID]; ok {
			a.rows = append(a.rows, answerRow{
				Name:   ch.Name(),
				Color:  ch.Color,
				Source: "auto",
				Expected: checker.Expected{
					VMax:   m.VMax,
					VMin:   m.VMin,
					VPP:    m.VPP,
					Period: m.Period,
					Freq:   m.Freq,
				},
			})
		}
	}
}

func (a *AnswerTableData) GetRowCount() int {
	return len(a.rows) + 1
}

func (a *AnswerTableData) GetColumnCount() int {
	return 2 + len(fieldHeaders)
}

func (a *AnswerTableData) GetCell(row, column int) *tview.TableCell {
	if row == 0 {
		switch column {
		case 0:
			return tview.NewTableCell("[lightskyblue]Channel ")
		case 1:
			return tview.NewTableCell("[white]Source ")
		default:
			return tview.NewTableCell(fmt.Sprintf("[white]%s ", fieldHeaders[column-2]))
		}
	}
	if row > len(a.rows) {
		return tview.NewTableCell("ERROR")
	}
	r := a.rows[row-1]
	switch column {
	case 0:
		return tview.NewTableCell(r.Name).SetTextColor(tcell.GetColor(r.Color))
	case 1:
		if r.Source == "auto" {
			return tview.NewTableCell("[gray]auto")
		}
		return tview.NewTableCell("[green]key")
	default:
		f := checker.Fields[column-2]
		return tview.NewTableCell(formatValue(r.Expected.Value(f)))
	}
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 0):
		return "∞"
	case math.IsNaN(v):
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}

// ResultTableData shows the outcome of the student's last check without
// giving the reference values away.
type ResultTableData struct {
	tview.TableContentReadOnly
	ids    []int
	result checker.Result
}

func (r *ResultTableData) Update(shared scope.SharedSettings, res checker.Result) {
	r.result = res
	r.ids = r.ids[:0]
	for _, ch := range shared.EnabledChannels() {
		if _, ok := res.Channels[ch.ID]; ok {
			r.ids = append(r.ids, ch.ID)
		}
	}
}

// Failed is the number of failed fields and the number graded.
func (r *ResultTableData) Failed() (int, int) {
	failed, total := 0, 0
	for _, id := range r.ids {
		cr := r.result.Channels[id]
		failed += cr.Failed
		total += len(cr.Fields)
	}
	return failed, total
}

func (r *ResultTableData) GetRowCount() int {
	return len(r.ids) + 1
}

func (r *ResultTableData) GetColumnCount() int {
	return 2 + len(fieldHeaders)
}

func (r *ResultTableData) GetCell(row, column int) *tview.TableCell {
	if row == 0 {
		switch column {
		case 0:
			return tview.NewTableCell("[lightskyblue]Channel ")
		case 1:
			return tview.NewTableCell("[white]Result ")
		default:
			return tview.NewTableCell(fmt.Sprintf("[white]%s ", fieldHeaders[column-2]))
		}
	}
	if row > len(r.ids) {
		return tview.NewTableCell("ERROR")
	}
	id := r.ids[row-1]
	cr := r.result.Channels[id]
	switch column {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("[lightskyblue]CH%d", id))
	case 1:
		if cr.Pass {
			return tview.NewTableCell("[green]pass")
		}
		return tview.NewTableCell(fmt.Sprintf("[red]%d failed", cr.Failed))
	default:
		i := column - 2
		if i >= len(cr.Fields) {
			return tview.NewTableCell("")
		}
		if cr.Fields[i].Pass {
			return tview.NewTableCell("[green]ok")
		}
		return tview.NewTableCell("[red]x")
	}
}
