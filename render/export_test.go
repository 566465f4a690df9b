package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/jrwynneiii/scopetrainer/scope"
)

func TestBanner(t *testing.T) {
	view := scope.DefaultView(scope.DefaultSettings())
	if got := Banner(view); got != "1 V/div | 1 ms/div" {
		t.Errorf("anonymous banner %q", got)
	}

	view = view.Edit(func(v *scope.ViewSettings) {
		v.Student = scope.Student{Name: "Ada", Surname: "Lovelace", ClassName: "3B", Date: "2026-10-19"}
		v.VoltsPerDiv = 0.5
		v.SecondsPerDiv = 5e-4
	})
	want := "Ada Lovelace | 3B | 2026-10-19 | 500 mV/div | 500 us/div"
	if got := Banner(view); got != want {
		t.Errorf("banner %q, want %q", got, want)
	}
}

func TestFormatSI(t *testing.T) {
	cases := []struct {
		v    float64
		unit string
		want string
	}{
		{2, "V", "2 V"},
		{0.002, "s", "2 ms"},
		{2e-6, "s", "2 us"},
		{-0.25, "V", "-250 mV"},
		{0, "V", "0 V"},
	}
	for _, tc := range cases {
		if got := formatSI(tc.v, tc.unit); got != tc.want {
			t.Errorf("formatSI(%v, %s) = %q, want %q", tc.v, tc.unit, got, tc.want)
		}
	}
}

func TestCanvasExport(t *testing.T) {
	shared := scope.DefaultSettings()
	var buf bytes.Buffer
	if err := testCanvas().Export(&buf, 400, 300, shared, scope.DefaultView(shared), testSampler()); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300+bannerHeight {
		t.Errorf("bounds %v", b)
	}
}
