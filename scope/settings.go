package scope

// NumChannels is fixed; channel IDs are always 1..NumChannels.
const NumChannels = 3

const (
	DefaultTimeBase            = 1e-3
	DefaultSampleRate          = 100e3
	DefaultHorizontalDivisions = 10
	DefaultVerticalDivisions   = 8
)

// SharedSettings is the instructor-owned snapshot every view renders from.
// Treat a published value as read-only; use Edit to derive the next one.
type SharedSettings struct {
	Version             uint64                     `json:"version"`
	Locked              bool                       `json:"locked"`
	Difficulty          Difficulty                 `json:"difficulty"`
	TimeBase            float64                    `json:"time_base"`
	SampleRate          float64                    `json:"sample_rate"`
	HorizontalDivisions int                        `json:"horizontal_divisions"`
	VerticalDivisions   int                        `json:"vertical_divisions"`
	Channels            [NumChannels]ChannelConfig `json:"channels"`
}

func DefaultChannels() [NumChannels]ChannelConfig {
	return [NumChannels]ChannelConfig{
		{ID: 1, Enabled: true, Waveform: Sine, Amplitude: 2, Frequency: 1000, Color: "#f5d742"},
		{ID: 2, Enabled: false, Waveform: Square, Amplitude: 1, Frequency: 500, Color: "#42d4f5"},
		{ID: 3, Enabled: false, Waveform: Triangle, Amplitude: 1, Frequency: 250, Color: "#f542c8"},
	}
}

func DefaultSettings() SharedSettings {
	return SharedSettings{
		Difficulty:          Basic,
		TimeBase:            DefaultTimeBase,
		SampleRate:          DefaultSampleRate,
		HorizontalDivisions: DefaultHorizontalDivisions,
		VerticalDivisions:   DefaultVerticalDivisions,
		Channels:            DefaultChannels(),
	}
}

// Edit returns a copy of s with fn applied and the version bumped. The
// receiver is never modified.
func (s SharedSettings) Edit(fn func(*SharedSettings)) SharedSettings {
	next := s
	fn(&next)
	next.Version = s.Version + 1
	return next
}

// WithChannel replaces the channel with the same ID. Out of range IDs leave
// the channels untouched but still produce a new version.
func (s SharedSettings) WithChannel(ch ChannelConfig) SharedSettings {
	return s.Edit(func(next *SharedSettings) {
		if ch.ID < 1 || ch.ID > NumChannels {
			return
		}
		next.Channels[ch.ID-1] = ch
	})
}

func (s SharedSettings) Channel(id int) (ChannelConfig, bool) {
	if id < 1 || id > NumChannels {
		return ChannelConfig{}, false
	}
	return s.Channels[id-1], true
}

func (s SharedSettings) EnabledChannels() []ChannelConfig {
	var out []ChannelConfig
	for _, ch := range s.Channels {
		if ch.Enabled {
			out = append(out, ch)
		}
	}
	return out
}

// Normalize repairs a snapshot that came off the wire or out of a file.
// Channel IDs are re-keyed by position, and structural fields that would
// make rendering undefined are restored from the defaults. Amplitudes and
// other signal parameters are left alone.
func (s SharedSettings) Normalize() SharedSettings {
	def := DefaultSettings()
	if _, err := ParseDifficulty(string(s.Difficulty)); err != nil {
		s.Difficulty = def.Difficulty
	}
	if s.TimeBase <= 0 {
		s.TimeBase = def.TimeBase
	}
	if s.SampleRate <= 0 {
		s.SampleRate = def.SampleRate
	}
	if s.HorizontalDivisions < 1 {
		s.HorizontalDivisions = def.HorizontalDivisions
	}
	if s.VerticalDivisions < 1 {
		s.VerticalDivisions = def.VerticalDivisions
	}
	for i := range s.Channels {
		s.Channels[i].ID = i + 1
		if _, err := ParseWaveform(string(s.Channels[i].Waveform)); err != nil {
			s.Channels[i].Waveform = def.Channels[i].Waveform
		}
		if s.Channels[i].Color == "" {
			s.Channels[i].Color = def.Channels[i].Color
		}
	}
	return s
}
