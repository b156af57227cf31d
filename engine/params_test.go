package engine

import "testing"

func TestParamBPMRoundTrip(t *testing.T) {
	s := NewState()
	p := ParamRef{Kind: ParamBPM}
	if got := p.Index(s); got != 119 {
		t.Errorf("default bpm index = %d, want 119", got)
	}
	p.SetIndex(s, 0)
	if s.BPM != MinBPM {
		t.Errorf("bpm = %d, want %d", s.BPM, MinBPM)
	}
	p.SetIndex(s, 10000)
	if s.BPM != MaxBPM {
		t.Errorf("bpm = %d after overflow, want %d", s.BPM, MaxBPM)
	}
	if got := p.Label(s, p.Index(s)); got != "300" {
		t.Errorf("label = %q", got)
	}
}

func TestParamDomainSizes(t *testing.T) {
	s := NewState()
	s.Channels[2].Steps = 8
	var tests = []struct {
		ref  ParamRef
		want int
	}{
		{ParamRef{Kind: ParamBPM}, MaxBPM - MinBPM + 1},
		{ParamRef{Kind: ParamResetOnStart}, 2},
		{ParamRef{Kind: ParamClockMod, Channel: 0}, NumClockMods},
		{ParamRef{Kind: ParamWave, Channel: 0}, NumWaveShapes},
		{ParamRef{Kind: ParamWidth, Channel: 0}, 101},
		{ParamRef{Kind: ParamESteps, Channel: 0}, MaxEuclidSteps + 1},
		{ParamRef{Kind: ParamETrigs, Channel: 2}, 9},
		{ParamRef{Kind: ParamERot, Channel: 2}, 9},
		{ParamRef{Kind: ParamQuant, Channel: 0}, NumScales()},
		{ParamRef{Kind: ParamGain}, 301},
		{ParamRef{Kind: ParamRouteDest}, NumRouteDests},
	}
	for _, tt := range tests {
		if got := tt.ref.OptionCount(s); got != tt.want {
			t.Errorf("OptionCount(kind=%d) = %d, want %d", tt.ref.Kind, got, tt.want)
		}
	}
}

func TestParamRoutePropDomainFollowsDest(t *testing.T) {
	s := NewState()
	p := ParamRef{Kind: ParamRouteProp}
	if got := p.OptionCount(s); got != 1 {
		t.Errorf("prop domain for None = %d, want 1", got)
	}
	s.Route.Dest = RouteClock
	if got := p.OptionCount(s); got != 1 {
		t.Errorf("prop domain for Clock = %d, want 1", got)
	}
	s.Route.Dest = RouteCV3
	if got := p.OptionCount(s); got != 9 {
		t.Errorf("prop domain for a channel = %d, want 9", got)
	}
}

// Shrinking the step count must drag dependent values back into range
func TestParamStepShrinkReclamps(t *testing.T) {
	s := NewState()
	ch := 1
	ParamRef{Kind: ParamESteps, Channel: ch}.SetIndex(s, 16)
	ParamRef{Kind: ParamETrigs, Channel: ch}.SetIndex(s, 12)
	ParamRef{Kind: ParamERot, Channel: ch}.SetIndex(s, 10)

	ParamRef{Kind: ParamESteps, Channel: ch}.SetIndex(s, 4)
	c := s.Channels[ch]
	if c.Steps != 4 || c.Triggers != 4 || c.Rotation != 2 {
		t.Errorf("after shrink: steps=%d triggers=%d rotation=%d", c.Steps, c.Triggers, c.Rotation)
	}

	ParamRef{Kind: ParamESteps, Channel: ch}.SetIndex(s, 0)
	c = s.Channels[ch]
	if c.Steps != 0 || c.Triggers != 0 || c.Rotation != 0 {
		t.Errorf("after disable: steps=%d triggers=%d rotation=%d", c.Steps, c.Triggers, c.Rotation)
	}
}

func TestParamDestChangeResetsProp(t *testing.T) {
	s := NewState()
	s.Route.Dest = RouteCV1
	s.Route.Prop = 5
	ParamRef{Kind: ParamRouteDest}.SetIndex(s, int(RouteClock))
	if s.Route.Prop != 0 {
		t.Errorf("prop = %d after dest change, want 0", s.Route.Prop)
	}
}

func TestParamValid(t *testing.T) {
	var tests = []struct {
		ref  ParamRef
		want bool
	}{
		{ParamRef{Kind: ParamBPM}, true},
		{ParamRef{Kind: ParamWave, Channel: 0}, true},
		{ParamRef{Kind: ParamWave, Channel: NumChannels}, false},
		{ParamRef{Kind: ParamWave, Channel: -1}, false},
		{ParamRef{Kind: ParamKind(-1)}, false},
	}
	for _, tt := range tests {
		if got := tt.ref.Valid(); got != tt.want {
			t.Errorf("Valid(%+v) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestParamLabels(t *testing.T) {
	s := NewState()
	var tests = []struct {
		ref  ParamRef
		idx  int
		want string
	}{
		{ParamRef{Kind: ParamClockMod}, int(ModX1), "x1"},
		{ParamRef{Kind: ParamClockMod}, int(ModDiv16), "/16"},
		{ParamRef{Kind: ParamWave}, int(WaveTriangle), "Tri"},
		{ParamRef{Kind: ParamWidth}, 75, "75%"},
		{ParamRef{Kind: ParamResetOnStart}, 1, "On"},
		{ParamRef{Kind: ParamQuant}, 0, "None"},
		{ParamRef{Kind: ParamRouteDest}, int(RouteCV4), "CV4"},
	}
	for _, tt := range tests {
		if got := tt.ref.Label(s, tt.idx); got != tt.want {
			t.Errorf("Label(kind=%d, %d) = %q, want %q", tt.ref.Kind, tt.idx, got, tt.want)
		}
	}
}

func TestStateClamp(t *testing.T) {
	s := NewState()
	if s.Clamp() {
		t.Error("default state needed clamping")
	}
	s.BPM = 9999
	s.Channels[0].Amplitude = -5
	s.Channels[0].Steps = 100
	s.Channels[0].Triggers = 200
	s.Channels[1].Rotation = 5 // steps is 0
	s.Route.Gain = 301
	if !s.Clamp() {
		t.Error("Clamp did not report changes")
	}
	if s.BPM != MaxBPM || s.Channels[0].Amplitude != 0 ||
		s.Channels[0].Steps != MaxEuclidSteps || s.Channels[0].Triggers != MaxEuclidSteps ||
		s.Channels[1].Rotation != 0 || s.Route.Gain != 300 {
		t.Errorf("clamped state: %+v", s)
	}
	if s.Clamp() {
		t.Error("second Clamp reported changes")
	}
}
