package scope

type Student struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	ClassName string `json:"class_name"`
	Date      string `json:"date"`
}

// Measurement holds what the student typed, unparsed.
type Measurement struct {
	VMax   string `json:"vmax"`
	VMin   string `json:"vmin"`
	VPP    string `json:"vpp"`
	Period string `json:"period"`
	Freq   string `json:"freq"`
}

// ViewSettings is local to one student. It is persisted by the session
// store and never sent to the instructor.
type ViewSettings struct {
	VoltsPerDiv      float64             `json:"volts_per_div"`
	SecondsPerDiv    float64             `json:"seconds_per_div"`
	VoltageOffset    float64             `json:"voltage_offset"`
	TimeOffset       float64             `json:"time_offset"`
	BandwidthLimitHz float64             `json:"bandwidth_limit_hz"`
	Student          Student             `json:"student"`
	Measurements     map[int]Measurement `json:"measurements"`
}

func DefaultView(shared SharedSettings) ViewSettings {
	spd := shared.TimeBase
	if spd <= 0 {
		spd = DefaultTimeBase
	}
	m := make(map[int]Measurement, NumChannels)
	for id := 1; id <= NumChannels; id++ {
		m[id] = Measurement{}
	}
	return ViewSettings{
		VoltsPerDiv:   1,
		SecondsPerDiv: spd,
		Measurements:  m,
	}
}

// Edit returns a copy of v with fn applied. The measurement map is cloned
// first so the copy never aliases the receiver.
func (v ViewSettings) Edit(fn func(*ViewSettings)) ViewSettings {
	next := v
	next.Measurements = make(map[int]Measurement, len(v.Measurements))
	for id, m := range v.Measurements {
		next.Measurements[id] = m
	}
	fn(&next)
	return next
}

func (v ViewSettings) WithMeasurement(id int, m Measurement) ViewSettings {
	return v.Edit(func(next *ViewSettings) {
		next.Measurements[id] = m
	})
}
