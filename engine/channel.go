package engine

import "math/rand"

// Channel is one output pipeline: a derived clock, a cached euclidean
// pattern, a wave generator, the skip filter and the quantizer, evaluated
// once per master tick. Base parameters live in the shared State; the
// engine hands Evaluate an effective copy so routed overrides never touch
// the stored configuration.
type Channel struct {
	idx int
	rng *rand.Rand

	// sub-clock position
	tickInStep int // localPhase numerator within the current step
	cursor     int // position inside the euclidean pattern

	lastMod ClockMod

	// cached pattern, rebuilt when (steps, triggers, rotation) changes
	pattern []bool
	patKey  [3]int

	skipHeld   bool    // current step suppressed by the skip filter
	heldSample float64 // sample-and-hold value for the Random shape

	prevVolts float64
	prevGate  bool
}

// NewChannel creates a channel pipeline. The rng drives skip decisions and
// the Random wave shape; tests pass a seeded source.
func NewChannel(idx int, rng *rand.Rand) *Channel {
	return &Channel{idx: idx, rng: rng, lastMod: -1, patKey: [3]int{-1, -1, -1}}
}

// Reset rewinds the sub-clock and pattern cursor to zero. Called on clock
// start when reset-on-start is enabled.
func (c *Channel) Reset() {
	c.tickInStep = 0
	c.cursor = 0
	c.skipHeld = false
}

// LocalPhase reports the wave phase in [0,1)
func (c *Channel) LocalPhase() float64 {
	return float64(c.tickInStep) / float64(c.lastMod.TicksPerCycle())
}

// Cursor reports the euclidean pattern position
func (c *Channel) Cursor() int { return c.cursor }

// Pattern returns the cached rhythm pattern (nil when steps is 0)
func (c *Channel) Pattern() []bool { return c.pattern }

// refreshPattern rebuilds the cached euclidean pattern if its inputs
// changed, clamping degenerate trigger/rotation values first.
func (c *Channel) refreshPattern(cfg *ChannelConfig) {
	if cfg.Steps <= 0 {
		c.pattern = nil
		c.patKey = [3]int{-1, -1, -1}
		c.cursor = 0
		return
	}
	if cfg.Triggers > cfg.Steps {
		cfg.Triggers = cfg.Steps
	}
	rot := ((cfg.Rotation % cfg.Steps) + cfg.Steps) % cfg.Steps
	key := [3]int{cfg.Steps, cfg.Triggers, rot}
	if key != c.patKey {
		c.pattern = RotatePattern(EuclideanPattern(cfg.Steps, cfg.Triggers), rot)
		c.patKey = key
		if c.cursor >= cfg.Steps {
			c.cursor = 0
		}
	}
}

// Evaluate consumes one master tick and produces the channel's output.
// eff is the effective configuration for this tick (base values plus any
// routed override); it is a copy and may be adjusted freely.
func (c *Channel) Evaluate(eff ChannelConfig) (volts float64, gate bool) {
	// A live modifier change restarts the sub-phase so the wave never
	// jumps mid-cycle.
	if eff.Mod != c.lastMod {
		c.lastMod = eff.Mod
		c.tickInStep = 0
		c.cursor = 0
	}
	ticks := eff.Mod.TicksPerCycle()

	c.refreshPattern(&eff)
	euclidOn := eff.Steps > 0 && eff.Triggers > 0
	active := true
	if euclidOn {
		active = c.pattern[c.cursor]
	}

	// Skip draws happen once per discrete trigger event: the start of an
	// active euclidean step, or of a square/random cycle used as a gate.
	// Continuous shapes free-running without a rhythm are never skipped.
	if c.tickInStep == 0 {
		event := active && (euclidOn || eff.Wave == WaveSquare)
		if event && eff.Skip > 0 {
			c.skipHeld = c.rng.Intn(100) < eff.Skip
		} else {
			c.skipHeld = false
		}
		if eff.Wave == WaveRandom && active && !c.skipHeld {
			c.heldSample = c.rng.Float64()
		}
	}

	phase := float64(c.tickInStep) / float64(ticks)
	amp := float64(eff.Amplitude) / 100.0

	switch {
	case !active:
		volts, gate = 0, false

	case c.skipHeld:
		// A suppressed event holds the previous output for the whole step
		volts, gate = c.prevVolts, c.prevGate

	default:
		switch eff.Wave {
		case WaveRandom:
			// Width acts as a DC offset on the held sample
			raw := clamp01(c.heldSample + float64(eff.Width)/100.0)
			volts = raw * amp * MaxVolts
			gate = euclidOn
		case WaveReset:
			// Fires only on the synthetic stop edge, via StopEdge
			volts, gate = 0, false
		default:
			raw := waveValue(eff.Wave, phase, eff.Width)
			volts = raw * amp * MaxVolts
			if eff.Wave == WaveSquare {
				gate = raw > 0
			} else {
				gate = euclidOn
			}
		}
		volts = Quantize(volts, eff.Scale)
		if volts < 0 {
			volts = 0
		} else if volts > MaxVolts {
			volts = MaxVolts
		}
	}

	c.prevVolts, c.prevGate = volts, gate

	// Advance the sub-clock; the cursor moves one slot per completed step
	c.tickInStep++
	if c.tickInStep >= ticks {
		c.tickInStep = 0
		if n := len(c.pattern); n > 0 {
			c.cursor = (c.cursor + 1) % n
		}
	}
	return volts, gate
}

// StopEdge delivers the synthetic edge emitted when the master clock
// stops: Reset-shape channels fire one full-amplitude pulse, everything
// else drops to zero so no output is left hot.
func (c *Channel) StopEdge(eff ChannelConfig) (volts float64, gate bool) {
	if eff.Wave == WaveReset {
		volts = float64(eff.Amplitude) / 100.0 * MaxVolts
		gate = true
	}
	c.prevVolts, c.prevGate = volts, gate
	return volts, gate
}
