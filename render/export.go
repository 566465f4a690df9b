package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jrwynneiii/scopetrainer/scope"
)

// Banner is the identity line printed above an exported screen.
func Banner(view scope.ViewSettings) string {
	var parts []string
	name := strings.TrimSpace(view.Student.Name + " " + view.Student.Surname)
	if name != "" {
		parts = append(parts, name)
	}
	if view.Student.ClassName != "" {
		parts = append(parts, view.Student.ClassName)
	}
	if view.Student.Date != "" {
		parts = append(parts, view.Student.Date)
	}
	parts = append(parts, formatSI(view.VoltsPerDiv, "V")+"/div", formatSI(view.SecondsPerDiv, "s")+"/div")
	return strings.Join(parts, " | ")
}

// formatSI prints v with an engineering prefix, e.g. 0.0005 s -> "500 us".
func formatSI(v float64, unit string) string {
	prefixes := []struct {
		scale float64
		sym   string
	}{
		{1, ""},
		{1e-3, "m"},
		{1e-6, "u"},
		{1e-9, "n"},
	}
	abs := v
	if abs < 0 {
		abs = -abs
	}
	for _, p := range prefixes {
		if abs >= p.scale {
			return fmt.Sprintf("%.4g %s%s", v/p.scale, p.sym, unit)
		}
	}
	return fmt.Sprintf("%.4g %s", v, unit)
}

// Export renders one frame into a width x height PNG with the identity
// banner on top.
func (c Canvas) Export(w io.Writer, width, height int, shared scope.SharedSettings, view scope.ViewSettings, sampler Sampler) error {
	r := NewRaster(c, width, height, Banner(view))
	c.Render(r, shared, view, sampler)
	if err := r.WritePNG(w); err != nil {
		return fmt.Errorf("export frame: %w", err)
	}
	return nil
}
