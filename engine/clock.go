package engine

import (
	"time"

	"go-clockwork/debug"
)

// PPQN is the number of master ticks per quarter note. 24 keeps every
// clock modifier in the set on a whole number of ticks per cycle and is
// slow enough for a control-rate loop.
const PPQN = 24

// MasterClock is the run/stop state machine that turns wall time into
// master ticks. Owned by the engine loop; nothing else mutates it.
type MasterClock struct {
	bpm          int
	running      bool
	resetOnStart bool

	phase float64 // fractional tick accumulator, monotonic while running
	ticks int64   // total master ticks emitted since start
}

// NewMasterClock creates a stopped clock at the given BPM
func NewMasterClock(bpm int) *MasterClock {
	c := &MasterClock{resetOnStart: true}
	c.SetBPM(bpm)
	return c
}

// Running reports whether the clock is in the Running state
func (c *MasterClock) Running() bool { return c.running }

// BPM returns the current clamped tempo
func (c *MasterClock) BPM() int { return c.bpm }

// Ticks returns the number of master ticks emitted since the last start
func (c *MasterClock) Ticks() int64 { return c.ticks }

// ResetOnStart reports the reset-on-start flag
func (c *MasterClock) ResetOnStart() bool { return c.resetOnStart }

// SetResetOnStart sets whether channels rewind when the clock starts
func (c *MasterClock) SetResetOnStart(v bool) { c.resetOnStart = v }

// SetBPM applies a tempo, clamping to [MinBPM, MaxBPM]. Out-of-range
// values are a non-fatal InvalidRange condition: clamp and keep going.
func (c *MasterClock) SetBPM(bpm int) {
	if bpm < MinBPM {
		debug.Log("clock", "bpm %d below range, clamping to %d", bpm, MinBPM)
		bpm = MinBPM
	} else if bpm > MaxBPM {
		debug.Log("clock", "bpm %d above range, clamping to %d", bpm, MaxBPM)
		bpm = MaxBPM
	}
	c.bpm = bpm
}

// Start moves Stopped->Running. Returns true if the state changed, in
// which case the engine rewinds channels per reset-on-start.
func (c *MasterClock) Start() bool {
	if c.running {
		return false
	}
	c.running = true
	c.phase = 0
	c.ticks = 0
	debug.Log("clock", "start bpm=%d reset=%v", c.bpm, c.resetOnStart)
	return true
}

// Stop moves Running->Stopped. Returns true if the state changed, in
// which case the engine delivers the synthetic stop edge to the channels.
func (c *MasterClock) Stop() bool {
	if !c.running {
		return false
	}
	c.running = false
	debug.Log("clock", "stop after %d ticks", c.ticks)
	return true
}

// Advance accumulates elapsed time at an effective tempo and returns how
// many master ticks crossed in this interval. While stopped it returns 0.
// effBPM lets a routed override drive the rate for one tick without
// touching the stored tempo.
func (c *MasterClock) Advance(dt time.Duration, effBPM int) int {
	if !c.running || dt <= 0 {
		return 0
	}
	if effBPM < MinBPM {
		effBPM = MinBPM
	} else if effBPM > MaxBPM {
		effBPM = MaxBPM
	}
	ticksPerSecond := float64(effBPM) / 60.0 * PPQN
	c.phase += dt.Seconds() * ticksPerSecond

	n := 0
	for float64(c.ticks+1) <= c.phase {
		c.ticks++
		n++
	}
	return n
}
