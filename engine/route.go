package engine

import (
	"math"

	"go-clockwork/debug"
)

// VoltageSource supplies the external control voltage in [0, MaxVolts].
// Implemented by the MIDI CC adapter and the TUI's manual source.
type VoltageSource interface {
	ReadVoltage() float64
}

type routeProp struct {
	name string
	kind ParamKind
}

var clockProps = []routeProp{
	{"BPM", ParamBPM},
}

var channelProps = []routeProp{
	{"Clock Mod", ParamClockMod},
	{"Wave", ParamWave},
	{"Width", ParamWidth},
	{"Ampl.", ParamAmplitude},
	{"Skip%", ParamSkip},
	{"ESteps", ParamESteps},
	{"ETrigs", ParamETrigs},
	{"ERot", ParamERot},
	{"Quant.", ParamQuant},
}

var noneProps = []routeProp{{"None", -1}}

// routeProps lists the properties a destination exposes
func routeProps(d RouteDest) []routeProp {
	switch {
	case d == RouteClock:
		return clockProps
	case d.ChannelIndex() >= 0:
		return channelProps
	default:
		return noneProps
	}
}

// Override is the per-tick overlay a routed voltage produces. It carries
// the resolved parameter and the option index the voltage mapped to; it
// is applied to effective copies only and never written back to State.
type Override struct {
	Active bool
	Ref    ParamRef
	Index  int
}

// Router maps the external control voltage onto one destination
// parameter. At most one routing slot is active; changing the destination
// replaces it between ticks.
type Router struct {
	src VoltageSource
}

// NewRouter creates a router reading from the given source
func NewRouter(src VoltageSource) *Router {
	return &Router{src: src}
}

// SetSource swaps the voltage source
func (r *Router) SetSource(src VoltageSource) { r.src = src }

// Apply reads the external voltage and resolves the override that will
// overlay the destination parameter on the next tick. A destination that
// no longer resolves deactivates the routing slot and leaves every base
// parameter untouched.
func (r *Router) Apply(s *State) Override {
	if s.Route.Dest == RouteNone || r.src == nil {
		return Override{}
	}

	props := routeProps(s.Route.Dest)
	if s.Route.Prop < 0 || s.Route.Prop >= len(props) || props[s.Route.Prop].kind < 0 {
		debug.Log("route", "destination %s prop %d invalid, deactivating",
			s.Route.Dest.Label(), s.Route.Prop)
		s.Route.Dest = RouteNone
		s.Route.Prop = 0
		return Override{}
	}

	ref := ParamRef{Kind: props[s.Route.Prop].kind, Channel: s.Route.Dest.ChannelIndex()}
	if !ref.Valid() {
		debug.Log("route", "destination %s unresolvable, deactivating", s.Route.Dest.Label())
		s.Route.Dest = RouteNone
		s.Route.Prop = 0
		return Override{}
	}

	volts := r.src.ReadVoltage()
	if volts < 0 {
		volts = 0
	} else if volts > MaxVolts {
		volts = MaxVolts
	}

	gain := s.Route.Gain
	if gain < 0 {
		gain = 0
	} else if gain > 300 {
		gain = 300
	}

	norm := volts / MaxVolts * float64(gain) / 100.0
	if norm > 1 {
		norm = 1
	}

	n := ref.OptionCount(s)
	idx := int(math.Round(norm * float64(n-1)))
	return Override{Active: true, Ref: ref, Index: idx}
}

// applyToChannel overlays the override onto an effective channel config.
// Returns the config unchanged if the override targets something else.
func (o Override) applyToChannel(ch int, cfg ChannelConfig) ChannelConfig {
	if !o.Active || !o.Ref.channelScoped() || o.Ref.Channel != ch {
		return cfg
	}
	switch o.Ref.Kind {
	case ParamClockMod:
		cfg.Mod = ClockMod(o.Index)
	case ParamWave:
		cfg.Wave = WaveShape(o.Index)
	case ParamWidth:
		cfg.Width = o.Index
	case ParamAmplitude:
		cfg.Amplitude = o.Index
	case ParamSkip:
		cfg.Skip = o.Index
	case ParamESteps:
		cfg.Steps = o.Index
		if cfg.Triggers > cfg.Steps {
			cfg.Triggers = cfg.Steps
		}
	case ParamETrigs:
		cfg.Triggers = o.Index
	case ParamERot:
		cfg.Rotation = o.Index
	case ParamQuant:
		cfg.Scale = ScaleID(o.Index)
	}
	return cfg
}

// bpm returns the effective tempo given a possible BPM override
func (o Override) bpm(base int) int {
	if o.Active && o.Ref.Kind == ParamBPM {
		return MinBPM + o.Index
	}
	return base
}
