// Package checker grades student measurements against values derived
// analytically from the channel configuration.
//
// The reference values use the dc ± amplitude envelope for every waveform,
// so the answer key is only approximate for the non-sinusoidal and modulated
// kinds. That is accepted for the exercise.
package checker

import (
	"math"
	"strconv"
	"strings"

	"github.com/jrwynneiii/scopetrainer/scope"
)

const (
	VoltageTolerance = 0.05
	TimeTolerance    = 0.02

	// epsilon keeps the relative error finite when the reference is zero.
	epsilon = 1e-9
)

type Field string

const (
	VMax   Field = "vmax"
	VMin   Field = "vmin"
	VPP    Field = "vpp"
	Period Field = "period"
	Freq   Field = "freq"
)

var Fields = []Field{VMax, VMin, VPP, Period, Freq}

func (f Field) Tolerance() float64 {
	switch f {
	case Period, Freq:
		return TimeTolerance
	}
	return VoltageTolerance
}

// Expected is the answer key for one channel. Period is +Inf when the
// frequency is zero.
type Expected struct {
	VMax   float64
	VMin   float64
	VPP    float64
	Period float64
	Freq   float64
}

func (e Expected) Value(f Field) float64 {
	switch f {
	case VMax:
		return e.VMax
	case VMin:
		return e.VMin
	case VPP:
		return e.VPP
	case Period:
		return e.Period
	case Freq:
		return e.Freq
	}
	return math.NaN()
}

type FieldResult struct {
	Field    Field
	Input    string
	Expected float64
	Got      float64
	RelError float64
	Pass     bool
}

type ChannelResult struct {
	Pass   bool
	Failed int
	Fields []FieldResult
}

type Result struct {
	Pass     bool
	Channels map[int]ChannelResult
}

func Reference(ch scope.ChannelConfig) Expected {
	e := Expected{
		VMax: ch.DC + ch.Amplitude,
		VMin: ch.DC - ch.Amplitude,
		VPP:  2 * ch.Amplitude,
		Freq: ch.Frequency,
	}
	if ch.Waveform == scope.Noise {
		e.Freq = 0
	}
	e.Period = math.Inf(1)
	if e.Freq > 0 {
		e.Period = 1 / e.Freq
	}
	return e
}

func input(m scope.Measurement, f Field) string {
	switch f {
	case VMax:
		return m.VMax
	case VMin:
		return m.VMin
	case VPP:
		return m.VPP
	case Period:
		return m.Period
	case Freq:
		return m.Freq
	}
	return ""
}

// Check grades every enabled channel. Overall it passes only if each
// enabled channel does; with nothing enabled there is nothing to fail.
func Check(shared scope.SharedSettings, measurements map[int]scope.Measurement) Result {
	res := Result{Pass: true, Channels: make(map[int]ChannelResult)}
	for _, ch := range shared.Channels {
		if !ch.Enabled {
			continue
		}
		cr := CheckChannel(ch, measurements[ch.ID])
		res.Channels[ch.ID] = cr
		if !cr.Pass {
			res.Pass = false
		}
	}
	return res
}

func CheckChannel(ch scope.ChannelConfig, m scope.Measurement) ChannelResult {
	ref := Reference(ch)
	cr := ChannelResult{Pass: true}
	for _, f := range Fields {
		fr := CompareField(f, input(m, f), ref.Value(f))
		if !fr.Pass {
			cr.Failed++
			cr.Pass = false
		}
		cr.Fields = append(cr.Fields, fr)
	}
	return cr
}

// CompareField grades one typed value against its reference.
func CompareField(f Field, in string, ref float64) FieldResult {
	fr := FieldResult{Field: f, Input: in, Expected: ref, Got: math.NaN(), RelError: math.Inf(1)}

	if math.IsInf(ref, 1) {
		fr.Pass = isUndefined(in)
		if fr.Pass {
			fr.Got = math.Inf(1)
			fr.RelError = 0
		}
		return fr
	}

	v, ok := ParseNumber(in)
	if !ok || math.IsInf(v, 0) {
		return fr
	}
	fr.Got = v
	fr.RelError = math.Abs(v-ref) / (math.Abs(ref) + epsilon)
	fr.Pass = fr.RelError <= f.Tolerance()
	return fr
}

var undefinedWords = map[string]bool{
	"":          true,
	"inf":       true,
	"+inf":      true,
	"infinity":  true,
	"∞":         true,
	"undefined": true,
	"n/a":       true,
	"-":         true,
}

// isUndefined reports whether the student described an infinite period:
// left it blank, wrote one of the accepted words, or typed a number that
// parses to +Inf.
func isUndefined(in string) bool {
	s := strings.ToLower(strings.TrimSpace(in))
	if undefinedWords[s] {
		return true
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && math.IsInf(v, 1)
}

// ParseNumber reads a plain decimal number. A comma is taken as the decimal
// separator when the text has no dot. NaN is rejected.
func ParseNumber(in string) (float64, bool) {
	s := strings.TrimSpace(in)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
