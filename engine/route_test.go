package engine

import "testing"

type stubSource struct{ volts float64 }

func (s stubSource) ReadVoltage() float64 { return s.volts }

// property indices within the channel destination list
const (
	propClockMod = 0
	propWidth    = 2
)

func TestRouterInactiveWithoutDest(t *testing.T) {
	s := NewState()
	r := NewRouter(stubSource{volts: 5})
	if o := r.Apply(s); o.Active {
		t.Error("override active with RouteNone")
	}
}

func TestRouterInactiveWithoutSource(t *testing.T) {
	s := NewState()
	s.Route = RouteConfig{Dest: RouteCV1, Prop: propWidth, Gain: 100}
	r := NewRouter(nil)
	if o := r.Apply(s); o.Active {
		t.Error("override active with no voltage source")
	}
}

func TestRouterMapsFullScale(t *testing.T) {
	var tests = []struct {
		volts float64
		gain  int
		want  int // width index
	}{
		{10, 100, 100},
		{5, 100, 50},
		{0, 100, 0},
		{10, 50, 50},
		{10, 300, 100},  // gain saturates at full scale
		{5, 200, 100},
		{2.5, 200, 50},
		{-3, 100, 0},    // out-of-range inputs clamp
		{42, 100, 100},
	}
	for _, tt := range tests {
		s := NewState()
		s.Route = RouteConfig{Dest: RouteCV1, Prop: propWidth, Gain: tt.gain}
		r := NewRouter(stubSource{volts: tt.volts})
		o := r.Apply(s)
		if !o.Active {
			t.Fatalf("volts=%v gain=%d: override inactive", tt.volts, tt.gain)
		}
		if o.Index != tt.want {
			t.Errorf("volts=%v gain=%d: index %d, want %d", tt.volts, tt.gain, o.Index, tt.want)
		}
	}
}

func TestRouterOverlayLeavesBaseUntouched(t *testing.T) {
	s := NewState()
	s.Route = RouteConfig{Dest: RouteCV2, Prop: propWidth, Gain: 100}
	s.Channels[1].Width = 30
	r := NewRouter(stubSource{volts: 10})

	o := r.Apply(s)
	eff := o.applyToChannel(1, s.Channels[1])
	if eff.Width != 100 {
		t.Errorf("effective width = %d, want 100", eff.Width)
	}
	if s.Channels[1].Width != 30 {
		t.Errorf("base width mutated to %d", s.Channels[1].Width)
	}
}

func TestRouterOverlayTargetsOneChannel(t *testing.T) {
	s := NewState()
	s.Route = RouteConfig{Dest: RouteCV2, Prop: propClockMod, Gain: 100}
	r := NewRouter(stubSource{volts: 10})

	o := r.Apply(s)
	other := o.applyToChannel(0, s.Channels[0])
	if other != s.Channels[0] {
		t.Error("override leaked onto another channel")
	}
	target := o.applyToChannel(1, s.Channels[1])
	if target.Mod != ClockMod(NumClockMods-1) {
		t.Errorf("target mod = %v, want slowest", target.Mod)
	}
}

func TestRouterBPMOverride(t *testing.T) {
	s := NewState()
	s.Route = RouteConfig{Dest: RouteClock, Prop: 0, Gain: 100}
	r := NewRouter(stubSource{volts: 10})

	o := r.Apply(s)
	if got := o.bpm(s.BPM); got != MaxBPM {
		t.Errorf("effective bpm = %d, want %d", got, MaxBPM)
	}
	if s.BPM != 120 {
		t.Errorf("stored bpm mutated to %d", s.BPM)
	}

	// Without a BPM override the base passes through
	if got := (Override{}).bpm(s.BPM); got != 120 {
		t.Errorf("bpm without override = %d", got)
	}
}

func TestRouterDeactivatesInvalidSlot(t *testing.T) {
	s := NewState()
	s.Route = RouteConfig{Dest: RouteCV1, Prop: 99, Gain: 100}
	r := NewRouter(stubSource{volts: 10})

	if o := r.Apply(s); o.Active {
		t.Error("override active with an unresolvable property")
	}
	if s.Route.Dest != RouteNone {
		t.Errorf("slot not deactivated: dest=%v", s.Route.Dest)
	}
	if o := r.Apply(s); o.Active {
		t.Error("deactivated slot produced an override")
	}
}

func TestRouterStepsOverrideReclampsTriggers(t *testing.T) {
	s := NewState()
	s.Channels[0].Steps = 16
	s.Channels[0].Triggers = 12
	o := Override{Active: true, Ref: ParamRef{Kind: ParamESteps, Channel: 0}, Index: 4}
	eff := o.applyToChannel(0, s.Channels[0])
	if eff.Steps != 4 || eff.Triggers != 4 {
		t.Errorf("effective steps/triggers = %d/%d, want 4/4", eff.Steps, eff.Triggers)
	}
}
