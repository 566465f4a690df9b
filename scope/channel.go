package scope

import "fmt"

type Waveform string

const (
	Sine      Waveform = "sine"
	Square    Waveform = "square"
	Triangle  Waveform = "triangle"
	Saw       Waveform = "saw"
	Rectified Waveform = "rectified"
	AM        Waveform = "am"
	FM        Waveform = "fm"
	Noise     Waveform = "noise"
	Sum2      Waveform = "sum2"
)

var Waveforms = []Waveform{Sine, Square, Triangle, Saw, Rectified, AM, FM, Noise, Sum2}

func ParseWaveform(s string) (Waveform, error) {
	for _, w := range Waveforms {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown waveform %q", s)
}

type Difficulty string

const (
	Basic        Difficulty = "basic"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

var Difficulties = []Difficulty{Basic, Intermediate, Advanced}

func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// ChannelConfig describes one signal generator. It is a value type: edits
// build a new ChannelConfig and hand it to SharedSettings.WithChannel.
type ChannelConfig struct {
	ID          int      `json:"id"`
	Enabled     bool     `json:"enabled"`
	Waveform    Waveform `json:"waveform"`
	Amplitude   float64  `json:"amplitude"`
	Frequency   float64  `json:"frequency"`
	Phase       float64  `json:"phase"`
	DC          float64  `json:"dc"`
	NoiseStdDev float64  `json:"noise_std_dev"`
	Color       string   `json:"color"`
}

func (c ChannelConfig) Name() string {
	return fmt.Sprintf("CH%d", c.ID)
}
