package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrwynneiii/scopetrainer/scope"
	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadHCL(t *testing.T, body string) *koanf.Koanf {
	t.Helper()
	k := koanf.New(".")
	if err := k.Load(file.Provider(writeFile(t, "config.hcl", body)), hcl.Parser(true)); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestLoadPreset(t *testing.T) {
	path := writeFile(t, "lesson.hcl", `
locked     = true
difficulty = "advanced"
time_base  = 0.0005

ch1 {
  waveform  = "sum2"
  amplitude = 1.5
  frequency = 2000
}

ch3 {
  enabled = true
  dc      = -0.25
  noise   = 0.1
  color   = "#ffffff"
}
`)
	s, err := LoadPreset(path)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Locked || s.Difficulty != scope.Advanced || s.TimeBase != 0.0005 {
		t.Errorf("globals %+v", s)
	}
	if s.SampleRate != scope.DefaultSampleRate {
		t.Errorf("sample rate %v, want default", s.SampleRate)
	}

	ch1 := s.Channels[0]
	if ch1.Waveform != scope.Sum2 || ch1.Amplitude != 1.5 || ch1.Frequency != 2000 || !ch1.Enabled {
		t.Errorf("ch1 %+v", ch1)
	}
	if s.Channels[1] != scope.DefaultChannels()[1] {
		t.Errorf("ch2 changed: %+v", s.Channels[1])
	}
	ch3 := s.Channels[2]
	if !ch3.Enabled || ch3.DC != -0.25 || ch3.NoiseStdDev != 0.1 || ch3.Color != "#ffffff" {
		t.Errorf("ch3 %+v", ch3)
	}
}

func TestLoadPresetErrors(t *testing.T) {
	if _, err := LoadPreset(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := writeFile(t, "bad.hcl", "ch2 {\n  waveform = \"sawtooth-ish\"\n}\n")
	if _, err := LoadPreset(bad); err == nil {
		t.Error("expected error for unknown waveform")
	}
	bad = writeFile(t, "bad.hcl", "difficulty = \"expert\"\n")
	if _, err := LoadPreset(bad); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestPresetNormalizes(t *testing.T) {
	k := loadHCL(t, "sample_rate = -5\nhorizontal_divisions = 0\n")
	s, err := Preset(k)
	if err != nil {
		t.Fatal(err)
	}
	if s.SampleRate != scope.DefaultSampleRate || s.HorizontalDivisions != scope.DefaultHorizontalDivisions {
		t.Errorf("not normalized: %+v", s)
	}
}

func TestSectionDefaults(t *testing.T) {
	k := koanf.New(".")
	if c := Sync(k); c.Listen != DefaultListen || c.URL != DefaultURL {
		t.Errorf("sync %+v", c)
	}
	if c := Session(k); c.Path != DefaultSessionPath {
		t.Errorf("session %+v", c)
	}
	if c := Tui(k); c.RefreshMs != 250 || !c.EnableLogOutput {
		t.Errorf("tui %+v", c)
	}
	if c := Noise(k); c.Seed != 0 {
		t.Errorf("noise %+v", c)
	}
}

func TestSectionsFromFile(t *testing.T) {
	k := loadHCL(t, `
scope {
  width       = 640
  height      = 480
  min_samples = 500
}
sync {
  listen      = ":9000"
  send_buffer = 4
}
tui {
  refresh_ms        = 100
  enable_log_output = false
}
noise {
  seed = 7
}
`)
	if c := Scope(k); c.Width != 640 || c.Height != 480 || c.MinSamples != 500 || c.MaxSamples != 0 {
		t.Errorf("scope %+v", c)
	}
	if c := Sync(k); c.Listen != ":9000" || c.SendBuffer != 4 || c.URL != DefaultURL {
		t.Errorf("sync %+v", c)
	}
	if c := Tui(k); c.RefreshMs != 100 || c.EnableLogOutput {
		t.Errorf("tui %+v", c)
	}
	if c := Noise(k); c.Seed != 7 {
		t.Errorf("noise %+v", c)
	}
}
