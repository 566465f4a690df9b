package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrwynneiii/scopetrainer/scope"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "nested", "session.json"))
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s := newTestStore(t)
	shared := scope.DefaultSettings()
	shared.TimeBase = 5e-4

	v := s.Load(shared)
	if v.SecondsPerDiv != 5e-4 || v.VoltsPerDiv != 1 {
		t.Errorf("default view %+v", v)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	shared := scope.DefaultSettings()

	v := scope.DefaultView(shared).Edit(func(v *scope.ViewSettings) {
		v.VoltsPerDiv = 0.5
		v.TimeOffset = 2e-4
		v.BandwidthLimitHz = 20e3
		v.Student = scope.Student{Name: "Ada", Surname: "Lovelace", ClassName: "3B", Date: "2026-10-19"}
		v.Measurements[2] = scope.Measurement{VMax: "1", Freq: "500"}
	})
	s.Save(v)

	got := s.Load(shared)
	if got.VoltsPerDiv != 0.5 || got.TimeOffset != 2e-4 || got.BandwidthLimitHz != 20e3 {
		t.Errorf("scales %+v", got)
	}
	if got.Student != v.Student {
		t.Errorf("student %+v", got.Student)
	}
	if got.Measurements[2] != v.Measurements[2] {
		t.Errorf("measurement %+v", got.Measurements[2])
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestCorruptFileFallsBack(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path, []byte("{\"volts_per_div\": "), 0644); err != nil {
		t.Fatal(err)
	}
	v := s.Load(scope.DefaultSettings())
	if v.VoltsPerDiv != 1 || len(v.Measurements) != scope.NumChannels {
		t.Errorf("fallback view %+v", v)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path, []byte(`{"voltage_offset": 0.5, "measurements": {"1": {"vmax": "2"}}}`), 0644); err != nil {
		t.Fatal(err)
	}
	v := s.Load(scope.DefaultSettings())
	if v.VoltageOffset != 0.5 || v.VoltsPerDiv != 1 || v.SecondsPerDiv != scope.DefaultTimeBase {
		t.Errorf("view %+v", v)
	}
	if v.Measurements[1].VMax != "2" {
		t.Errorf("measurement 1 %+v", v.Measurements[1])
	}
	if _, ok := v.Measurements[3]; !ok {
		t.Error("channel 3 measurement not filled")
	}
}

func TestSaveToUnwritablePathIsSilent(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	// parent is a regular file, so MkdirAll fails
	s := New(filepath.Join(blocker, "session.json"))
	s.Save(scope.DefaultView(scope.DefaultSettings()))
	if _, err := os.Stat(s.Path); err == nil {
		t.Error("session unexpectedly written")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := New("~/scope/session.json").Path; got != filepath.Join(home, "scope", "session.json") {
		t.Errorf("path = %s", got)
	}
	if got := New("/tmp/x.json").Path; got != "/tmp/x.json" {
		t.Errorf("absolute path changed: %s", got)
	}
}
