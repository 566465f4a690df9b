package config

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/scopetrainer/scope"
	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadPreset reads a lesson file into a SharedSettings snapshot. Keys the
// file leaves out keep their default values. An example:
//
//	difficulty  = "intermediate"
//	time_base   = 0.0005
//	ch1 {
//	  waveform  = "sum2"
//	  amplitude = 1.5
//	  frequency = 2000
//	}
func LoadPreset(path string) (scope.SharedSettings, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), hcl.Parser(true)); err != nil {
		return scope.SharedSettings{}, fmt.Errorf("read preset %s: %w", path, err)
	}
	s, err := Preset(k)
	if err != nil {
		return scope.SharedSettings{}, fmt.Errorf("preset %s: %w", path, err)
	}
	log.Debugf("Loaded preset %s: %##v", path, s)
	return s, nil
}

// Preset builds a snapshot from already loaded keys.
func Preset(k *koanf.Koanf) (scope.SharedSettings, error) {
	s := scope.DefaultSettings()

	if k.Exists("locked") {
		s.Locked = k.Bool("locked")
	}
	if k.Exists("difficulty") {
		d, err := scope.ParseDifficulty(k.String("difficulty"))
		if err != nil {
			return s, err
		}
		s.Difficulty = d
	}
	if k.Exists("time_base") {
		s.TimeBase = k.Float64("time_base")
	}
	if k.Exists("sample_rate") {
		s.SampleRate = k.Float64("sample_rate")
	}
	if k.Exists("horizontal_divisions") {
		s.HorizontalDivisions = k.Int("horizontal_divisions")
	}
	if k.Exists("vertical_divisions") {
		s.VerticalDivisions = k.Int("vertical_divisions")
	}

	for i := range s.Channels {
		ch, err := presetChannel(k, fmt.Sprintf("ch%d", i+1), s.Channels[i])
		if err != nil {
			return s, err
		}
		s.Channels[i] = ch
	}
	return s.Normalize(), nil
}

func presetChannel(k *koanf.Koanf, prefix string, ch scope.ChannelConfig) (scope.ChannelConfig, error) {
	key := func(name string) string { return prefix + "." + name }

	if k.Exists(key("enabled")) {
		ch.Enabled = k.Bool(key("enabled"))
	}
	if k.Exists(key("waveform")) {
		w, err := scope.ParseWaveform(k.String(key("waveform")))
		if err != nil {
			return ch, fmt.Errorf("%s: %w", prefix, err)
		}
		ch.Waveform = w
	}
	if k.Exists(key("amplitude")) {
		ch.Amplitude = k.Float64(key("amplitude"))
	}
	if k.Exists(key("frequency")) {
		ch.Frequency = k.Float64(key("frequency"))
	}
	if k.Exists(key("phase")) {
		ch.Phase = k.Float64(key("phase"))
	}
	if k.Exists(key("dc")) {
		ch.DC = k.Float64(key("dc"))
	}
	if k.Exists(key("noise")) {
		ch.NoiseStdDev = k.Float64(key("noise"))
	}
	if k.Exists(key("color")) {
		ch.Color = k.String(key("color"))
	}
	return ch, nil
}
