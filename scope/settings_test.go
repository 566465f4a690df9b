package scope

import "testing"

func TestDefaultSettingsHasThreeKeyedChannels(t *testing.T) {
	s := DefaultSettings()
	for i, ch := range s.Channels {
		if ch.ID != i+1 {
			t.Errorf("channel at index %d has id %d", i, ch.ID)
		}
	}
	if s.Difficulty != Basic {
		t.Errorf("difficulty = %q, want basic", s.Difficulty)
	}
}

func TestEditDoesNotMutateReceiver(t *testing.T) {
	orig := DefaultSettings()
	next := orig.Edit(func(s *SharedSettings) {
		s.Locked = true
		s.Channels[0].Amplitude = 9
	})

	if orig.Locked || orig.Channels[0].Amplitude != 2 {
		t.Fatalf("original snapshot was modified: %+v", orig)
	}
	if !next.Locked || next.Channels[0].Amplitude != 9 {
		t.Fatalf("edit not applied: %+v", next)
	}
	if next.Version != orig.Version+1 {
		t.Errorf("version = %d, want %d", next.Version, orig.Version+1)
	}
}

func TestWithChannel(t *testing.T) {
	s := DefaultSettings()
	ch, _ := s.Channel(2)
	ch.Enabled = true
	ch.Waveform = Sum2

	next := s.WithChannel(ch)
	got, ok := next.Channel(2)
	if !ok || !got.Enabled || got.Waveform != Sum2 {
		t.Fatalf("channel 2 = %+v", got)
	}
	if was, _ := s.Channel(2); was.Enabled {
		t.Fatal("receiver channel changed")
	}

	bad := s.WithChannel(ChannelConfig{ID: 7, Enabled: true})
	if bad.Channels != s.Channels {
		t.Error("out of range id changed the channels")
	}
}

func TestChannelLookupOutOfRange(t *testing.T) {
	s := DefaultSettings()
	for _, id := range []int{0, 4, -1} {
		if _, ok := s.Channel(id); ok {
			t.Errorf("Channel(%d) reported ok", id)
		}
	}
}

func TestNormalizeRepairsStructure(t *testing.T) {
	s := SharedSettings{
		Difficulty:          "impossible",
		HorizontalDivisions: 0,
		VerticalDivisions:   -2,
		Channels: [NumChannels]ChannelConfig{
			{ID: 9, Waveform: "chirp", Amplitude: -1},
			{ID: 9, Waveform: Saw},
			{ID: 9, Waveform: Noise, Color: "#ffffff"},
		},
	}
	n := s.Normalize()

	if n.Difficulty != Basic {
		t.Errorf("difficulty = %q", n.Difficulty)
	}
	if n.HorizontalDivisions != DefaultHorizontalDivisions || n.VerticalDivisions != DefaultVerticalDivisions {
		t.Errorf("divisions = %dx%d", n.HorizontalDivisions, n.VerticalDivisions)
	}
	if n.TimeBase != DefaultTimeBase || n.SampleRate != DefaultSampleRate {
		t.Errorf("time base %v, sample rate %v", n.TimeBase, n.SampleRate)
	}
	for i, ch := range n.Channels {
		if ch.ID != i+1 {
			t.Errorf("index %d id = %d", i, ch.ID)
		}
	}
	if n.Channels[0].Waveform != Sine {
		t.Errorf("unknown waveform became %q", n.Channels[0].Waveform)
	}
	if n.Channels[0].Amplitude != -1 {
		t.Error("negative amplitude should be kept")
	}
	if n.Channels[2].Color != "#ffffff" {
		t.Errorf("color overwritten: %q", n.Channels[2].Color)
	}
}

func TestParseEnums(t *testing.T) {
	for _, w := range Waveforms {
		if got, err := ParseWaveform(string(w)); err != nil || got != w {
			t.Errorf("ParseWaveform(%q) = %q, %v", w, got, err)
		}
	}
	if _, err := ParseWaveform("chirp"); err == nil {
		t.Error("expected error for unknown waveform")
	}
	if _, err := ParseDifficulty("expert"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestViewEditClonesMeasurements(t *testing.T) {
	v := DefaultView(DefaultSettings())
	if v.SecondsPerDiv != DefaultTimeBase {
		t.Errorf("seconds/div = %v", v.SecondsPerDiv)
	}
	if len(v.Measurements) != NumChannels {
		t.Fatalf("measurements = %d entries", len(v.Measurements))
	}

	next := v.WithMeasurement(1, Measurement{VMax: "3"})
	if v.Measurements[1].VMax != "" {
		t.Fatal("receiver measurements aliased")
	}
	if next.Measurements[1].VMax != "3" {
		t.Fatal("measurement not stored")
	}
}
