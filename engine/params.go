package engine

import "strconv"

// ParamKind enumerates every editable parameter in the system. All menus
// and routed overrides address values through ParamRef so each parameter
// lives behind exactly one lookup table of discrete options.
type ParamKind int

const (
	ParamBPM ParamKind = iota
	ParamResetOnStart
	ParamClockMod
	ParamWave
	ParamWidth
	ParamAmplitude
	ParamSkip
	ParamESteps
	ParamETrigs
	ParamERot
	ParamQuant
	ParamGain
	ParamRouteDest
	ParamRouteProp
)

// ParamRef addresses one parameter: a kind plus the channel it belongs to
// for channel-scoped kinds.
type ParamRef struct {
	Kind    ParamKind
	Channel int
}

func (p ParamRef) channelScoped() bool {
	switch p.Kind {
	case ParamClockMod, ParamWave, ParamWidth, ParamAmplitude, ParamSkip,
		ParamESteps, ParamETrigs, ParamERot, ParamQuant:
		return true
	}
	return false
}

// Valid reports whether the reference points at a real parameter
func (p ParamRef) Valid() bool {
	if p.channelScoped() {
		return p.Channel >= 0 && p.Channel < NumChannels
	}
	switch p.Kind {
	case ParamBPM, ParamResetOnStart, ParamGain, ParamRouteDest, ParamRouteProp:
		return true
	}
	return false
}

// OptionCount returns the size of the parameter's domain. Euclid trigger
// and rotation domains depend on the channel's current step count, so the
// state is consulted.
func (p ParamRef) OptionCount(s *State) int {
	switch p.Kind {
	case ParamBPM:
		return MaxBPM - MinBPM + 1
	case ParamResetOnStart:
		return 2
	case ParamClockMod:
		return NumClockMods
	case ParamWave:
		return NumWaveShapes
	case ParamWidth, ParamAmplitude, ParamSkip:
		return 101
	case ParamESteps:
		return MaxEuclidSteps + 1
	case ParamETrigs, ParamERot:
		return s.Channels[p.Channel].Steps + 1
	case ParamQuant:
		return NumScales()
	case ParamGain:
		return 301
	case ParamRouteDest:
		return NumRouteDests
	case ParamRouteProp:
		return len(routeProps(s.Route.Dest))
	}
	return 1
}

// Index returns the parameter's current value as an option index
func (p ParamRef) Index(s *State) int {
	c := &s.Channels[clampChannel(p.Channel)]
	switch p.Kind {
	case ParamBPM:
		return s.BPM - MinBPM
	case ParamResetOnStart:
		if s.ResetOnStart {
			return 1
		}
		return 0
	case ParamClockMod:
		return int(c.Mod)
	case ParamWave:
		return int(c.Wave)
	case ParamWidth:
		return c.Width
	case ParamAmplitude:
		return c.Amplitude
	case ParamSkip:
		return c.Skip
	case ParamESteps:
		return c.Steps
	case ParamETrigs:
		return c.Triggers
	case ParamERot:
		return c.Rotation
	case ParamQuant:
		return int(c.Scale)
	case ParamGain:
		return s.Route.Gain
	case ParamRouteDest:
		return int(s.Route.Dest)
	case ParamRouteProp:
		return s.Route.Prop
	}
	return 0
}

// SetIndex writes an option index into the base state, clamping to the
// parameter's domain. Shrinking a channel's step count re-clamps its
// trigger and rotation values so the rhythm stays well formed.
func (p ParamRef) SetIndex(s *State, idx int) {
	n := p.OptionCount(s)
	if idx < 0 {
		idx = 0
	} else if idx >= n {
		idx = n - 1
	}
	c := &s.Channels[clampChannel(p.Channel)]
	switch p.Kind {
	case ParamBPM:
		s.BPM = MinBPM + idx
	case ParamResetOnStart:
		s.ResetOnStart = idx != 0
	case ParamClockMod:
		c.Mod = ClockMod(idx)
	case ParamWave:
		c.Wave = WaveShape(idx)
	case ParamWidth:
		c.Width = idx
	case ParamAmplitude:
		c.Amplitude = idx
	case ParamSkip:
		c.Skip = idx
	case ParamESteps:
		c.Steps = idx
		if c.Triggers > c.Steps {
			c.Triggers = c.Steps
		}
		if c.Steps == 0 {
			c.Rotation = 0
		} else if c.Rotation >= c.Steps {
			c.Rotation = c.Rotation % c.Steps
		}
	case ParamETrigs:
		c.Triggers = idx
	case ParamERot:
		c.Rotation = idx
	case ParamQuant:
		c.Scale = ScaleID(idx)
	case ParamGain:
		s.Route.Gain = idx
	case ParamRouteDest:
		s.Route.Dest = RouteDest(idx)
		if s.Route.Prop >= len(routeProps(s.Route.Dest)) {
			s.Route.Prop = 0
		}
	case ParamRouteProp:
		s.Route.Prop = idx
	}
}

// Label renders an option index as display text
func (p ParamRef) Label(s *State, idx int) string {
	switch p.Kind {
	case ParamBPM:
		return strconv.Itoa(MinBPM + idx)
	case ParamResetOnStart:
		if idx != 0 {
			return "On"
		}
		return "Off"
	case ParamClockMod:
		return ClockMod(idx).Label()
	case ParamWave:
		return WaveShape(idx).Label()
	case ParamWidth, ParamAmplitude, ParamSkip:
		return strconv.Itoa(idx) + "%"
	case ParamESteps, ParamETrigs, ParamERot:
		return strconv.Itoa(idx)
	case ParamQuant:
		return ScaleName(ScaleID(idx))
	case ParamGain:
		return strconv.Itoa(idx) + "%"
	case ParamRouteDest:
		return RouteDest(idx).Label()
	case ParamRouteProp:
		props := routeProps(s.Route.Dest)
		if idx >= 0 && idx < len(props) {
			return props[idx].name
		}
		return "?"
	}
	return "?"
}

func clampChannel(ch int) int {
	if ch < 0 {
		return 0
	}
	if ch >= NumChannels {
		return NumChannels - 1
	}
	return ch
}
