package engine

// NumChannels is the number of CV/gate output channels
const NumChannels = 6

// MaxEuclidSteps is the longest rhythm pattern a channel can hold
const MaxEuclidSteps = 32

// MaxVolts is the full-scale output (and routed input) voltage
const MaxVolts = 10.0

// BPM limits for the master clock
const (
	MinBPM = 1
	MaxBPM = 300
)

// ClockMod is a channel's multiplier/divider relative to the master clock
type ClockMod int

const (
	ModX8 ClockMod = iota
	ModX6
	ModX4
	ModX3
	ModX2
	ModX1
	ModDiv2
	ModDiv3
	ModDiv4
	ModDiv6
	ModDiv8
	ModDiv12
	ModDiv16
)

var clockModLabels = []string{
	"x8", "x6", "x4", "x3", "x2", "x1",
	"/2", "/3", "/4", "/6", "/8", "/12", "/16",
}

// Master ticks per wave cycle for each modifier. PPQN is chosen so every
// entry is a whole number of ticks.
var clockModTicks = []int{
	PPQN / 8, PPQN / 6, PPQN / 4, PPQN / 3, PPQN / 2, PPQN,
	PPQN * 2, PPQN * 3, PPQN * 4, PPQN * 6, PPQN * 8, PPQN * 12, PPQN * 16,
}

// NumClockMods is the size of the modifier set
var NumClockMods = len(clockModLabels)

func (m ClockMod) Label() string {
	if m < 0 || int(m) >= len(clockModLabels) {
		return "?"
	}
	return clockModLabels[m]
}

// TicksPerCycle returns how many master ticks one wave cycle spans
func (m ClockMod) TicksPerCycle() int {
	if m < 0 || int(m) >= len(clockModTicks) {
		return PPQN
	}
	return clockModTicks[m]
}

// Ratio returns channel sub-rate relative to the master clock (always > 0)
func (m ClockMod) Ratio() float64 {
	return float64(PPQN) / float64(m.TicksPerCycle())
}

// WaveShape selects a channel's waveform
type WaveShape int

const (
	WaveSquare WaveShape = iota
	WaveTriangle
	WaveSine
	WaveRandom
	WaveReset
)

var waveShapeLabels = []string{"Squ", "Tri", "Sin", "Rnd", "Rst"}

// NumWaveShapes is the size of the wave shape set
var NumWaveShapes = len(waveShapeLabels)

func (w WaveShape) Label() string {
	if w < 0 || int(w) >= len(waveShapeLabels) {
		return "?"
	}
	return waveShapeLabels[w]
}

// RouteDest selects what object the external CV is routed to
type RouteDest int

const (
	RouteNone RouteDest = iota
	RouteClock
	RouteCV1
	RouteCV2
	RouteCV3
	RouteCV4
	RouteCV5
	RouteCV6
)

var routeDestLabels = []string{"None", "Clock", "CV1", "CV2", "CV3", "CV4", "CV5", "CV6"}

// NumRouteDests is the size of the destination set
var NumRouteDests = len(routeDestLabels)

func (d RouteDest) Label() string {
	if d < 0 || int(d) >= len(routeDestLabels) {
		return "?"
	}
	return routeDestLabels[d]
}

// ChannelIndex returns the channel a destination refers to (-1 for none/clock)
func (d RouteDest) ChannelIndex() int {
	if d < RouteCV1 || d > RouteCV6 {
		return -1
	}
	return int(d - RouteCV1)
}

// ChannelConfig holds the base parameters for one output channel
type ChannelConfig struct {
	Mod       ClockMod  `json:"clockMod"`
	Wave      WaveShape `json:"wave"`
	Amplitude int       `json:"amplitude"` // percent [0,100]
	Width     int       `json:"width"`     // percent [0,100]
	Skip      int       `json:"skip"`      // percent [0,100]
	Steps     int       `json:"eSteps"`    // 0 disables the rhythm generator
	Triggers  int       `json:"eTrigs"`
	Rotation  int       `json:"eRot"`
	Scale     ScaleID   `json:"quant"`
}

// RouteConfig holds the single external-CV routing slot
type RouteConfig struct {
	Dest RouteDest `json:"dest"`
	Prop int       `json:"prop"` // index into the destination's property list
	Gain int       `json:"gain"` // percent [0,300]
}

// State is the single configuration aggregate consumed by every component.
// The engine loop is its only writer; everything else gets read-only copies.
type State struct {
	BPM          int                        `json:"bpm"`
	ResetOnStart bool                       `json:"resetOnStart"`
	Channels     [NumChannels]ChannelConfig `json:"channels"`
	Route        RouteConfig                `json:"route"`
}

// NewState creates a state with the defaults the hardware ships with
func NewState() *State {
	s := &State{
		BPM:          120,
		ResetOnStart: true,
		Route:        RouteConfig{Dest: RouteNone, Gain: 100},
	}
	for i := range s.Channels {
		s.Channels[i] = ChannelConfig{
			Mod:       ModX1,
			Wave:      WaveSquare,
			Amplitude: 50, // 5V gates
			Width:     50,
		}
	}
	return s
}

// Clamp pulls every field back into its valid domain. Returns true if
// anything had to change, so callers can surface an InvalidRange condition.
func (s *State) Clamp() bool {
	changed := false
	clampInt := func(v *int, lo, hi int) {
		if *v < lo {
			*v = lo
			changed = true
		} else if *v > hi {
			*v = hi
			changed = true
		}
	}
	clampInt(&s.BPM, MinBPM, MaxBPM)
	clampInt(&s.Route.Gain, 0, 300)
	if s.Route.Dest < RouteNone || int(s.Route.Dest) >= NumRouteDests {
		s.Route.Dest = RouteNone
		changed = true
	}
	for i := range s.Channels {
		c := &s.Channels[i]
		if c.Mod < 0 || int(c.Mod) >= NumClockMods {
			c.Mod = ModX1
			changed = true
		}
		if c.Wave < 0 || int(c.Wave) >= NumWaveShapes {
			c.Wave = WaveSquare
			changed = true
		}
		clampInt(&c.Amplitude, 0, 100)
		clampInt(&c.Width, 0, 100)
		clampInt(&c.Skip, 0, 100)
		clampInt(&c.Steps, 0, MaxEuclidSteps)
		clampInt(&c.Triggers, 0, c.Steps)
		if c.Steps > 0 {
			if c.Rotation < 0 || c.Rotation >= c.Steps {
				c.Rotation = ((c.Rotation % c.Steps) + c.Steps) % c.Steps
				changed = true
			}
		} else if c.Rotation != 0 {
			c.Rotation = 0
			changed = true
		}
		if c.Scale < 0 || int(c.Scale) >= NumScales() {
			c.Scale = ScaleOff
			changed = true
		}
	}
	return changed
}
