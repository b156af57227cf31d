package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go-clockwork/debug"
)

// ControlInterval is the control-rate tick period. Master ticks top out at
// 120/s (300 BPM at 24 PPQN), so 2ms keeps at most one crossing per tick
// in the common case while staying cheap.
const ControlInterval = 2 * time.Millisecond

// Outputs is what the engine hands the output driver every control tick
type Outputs struct {
	Volts   [NumChannels]float64
	Gates   [NumChannels]bool
	Running bool
	Tick    int64 // master ticks since start, for clock-pulse drivers
}

// Driver receives the per-tick outputs. Implementations must not block;
// the MIDI driver and the offline renderer both satisfy this.
type Driver interface {
	Send(Outputs)
}

// InputKind tags queued input events
type InputKind int

const (
	InputButtonDown InputKind = iota // mode button pressed
	InputButtonUp                    // mode button released
	InputEncoder                     // rotary delta in Delta
	InputStart                       // external start edge
	InputStop                        // external stop edge
	InputToggle                      // start/stop toggle (panel button)
)

// InputEvent is a queued collaborator event. Events are applied only at
// tick boundaries by the engine loop, never from another goroutine.
type InputEvent struct {
	Kind  InputKind
	At    time.Time
	Delta int
}

// Snapshot is the read-only view the display collaborator renders from
type Snapshot struct {
	State    State
	Outputs  Outputs
	Menu      MenuView
	Cursors   [NumChannels]int
	Patterns  [NumChannels][]bool
	Routed    string // active override description, "" when none
	Condition string // last non-fatal condition, "" when clean
}

// Engine owns all shared state and advances the whole system one control
// tick at a time: clock, six channel pipelines in index order, the
// parameter router, then the menu. There is exactly one writer: the loop
// in Run.
type Engine struct {
	mu sync.RWMutex

	state    *State
	clock    *MasterClock
	channels [NumChannels]*Channel
	router   *Router
	menu     *Menu
	driver   Driver

	inputs   chan InputEvent
	override Override // computed last tick, overlays this tick
	outs     Outputs

	stopPulse bool // a stop edge fired last tick; outputs decay next tick
	saveDirty bool
	condition string // last non-fatal condition, for the display

	onSave func(State)

	// UpdateChan wakes the display after each state change
	UpdateChan chan struct{}
}

// NewEngine wires the core together. driver and src may be nil (headless
// or routed-input-less operation); onSave is called with a state copy
// after every committed menu edit.
func NewEngine(state *State, driver Driver, src VoltageSource, onSave func(State)) *Engine {
	state.Clamp()
	e := &Engine{
		state:      state,
		clock:      NewMasterClock(state.BPM),
		router:     NewRouter(src),
		driver:     driver,
		inputs:     make(chan InputEvent, 64),
		onSave:     onSave,
		UpdateChan: make(chan struct{}, 1),
	}
	e.menu = NewMenu(func() { e.saveDirty = true })
	seed := time.Now().UnixNano()
	for i := range e.channels {
		e.channels[i] = NewChannel(i, rand.New(rand.NewSource(seed+int64(i))))
	}
	return e
}

// SendInput queues a collaborator event for the next tick boundary.
// Drops the event if the queue is full rather than blocking the caller.
func (e *Engine) SendInput(ev InputEvent) {
	select {
	case e.inputs <- ev:
	default:
		debug.Log("engine", "input queue full, dropping event kind=%d", ev.Kind)
	}
}

// SetVoltageSource swaps the routed CV source between ticks
func (e *Engine) SetVoltageSource(src VoltageSource) {
	e.mu.Lock()
	e.router.SetSource(src)
	e.mu.Unlock()
}

// Run drives the engine at the control rate until the context ends
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(ControlInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			e.Tick(now.Sub(last), now)
			last = now
		}
	}
}

// Tick advances the system by one control tick. Exported so the offline
// renderer and tests can drive the engine with synthetic time.
func (e *Engine) Tick(dt time.Duration, now time.Time) {
	e.mu.Lock()

	s := e.state

	// Decay last tick's stop pulse so no output stays hot. Runs before
	// the input drain so a fresh stop edge survives one full tick.
	if e.stopPulse {
		e.stopPulse = false
		for i := range e.outs.Volts {
			e.outs.Volts[i] = 0
			e.outs.Gates[i] = false
		}
	}

	menuEvents := e.drainInputs()

	e.clock.SetResetOnStart(s.ResetOnStart)
	n := e.clock.Advance(dt, e.override.bpm(s.BPM))
	for t := 0; t < n; t++ {
		for i, ch := range e.channels {
			eff := e.override.applyToChannel(i, s.Channels[i])
			e.outs.Volts[i], e.outs.Gates[i] = ch.Evaluate(eff)
		}
	}
	e.outs.Running = e.clock.Running()
	e.outs.Tick = e.clock.Ticks()

	// The override computed here overlays the next tick's evaluation
	dest := s.Route.Dest
	e.override = e.router.Apply(s)
	if dest != RouteNone && s.Route.Dest == RouteNone {
		e.condition = "route target invalid, deactivated"
	}

	for _, ev := range menuEvents {
		switch ev.Kind {
		case InputButtonDown:
			e.menu.Press(ev.At)
		case InputButtonUp:
			e.menu.Release(ev.At, s)
		case InputEncoder:
			e.menu.Encoder(ev.Delta, s)
		}
	}
	e.menu.Poll(now, s)
	if s.Clamp() {
		debug.Log("engine", "state clamped after edit")
		e.condition = "value out of range, clamped"
	}

	out := e.outs
	save := e.saveDirty
	e.saveDirty = false
	var saved State
	if save {
		saved = *s
	}
	e.mu.Unlock()

	if e.driver != nil {
		e.driver.Send(out)
	}
	if save && e.onSave != nil {
		e.onSave(saved)
	}
	e.notify()
}

// drainInputs applies transport edges immediately and returns the menu
// events for the poll stage, preserving arrival order.
func (e *Engine) drainInputs() []InputEvent {
	var menuEvents []InputEvent
	for {
		select {
		case ev := <-e.inputs:
			switch ev.Kind {
			case InputStart:
				e.start()
			case InputStop:
				e.stop()
			case InputToggle:
				if e.clock.Running() {
					e.stop()
				} else {
					e.start()
				}
			default:
				menuEvents = append(menuEvents, ev)
			}
		default:
			return menuEvents
		}
	}
}

func (e *Engine) start() {
	e.clock.SetBPM(e.state.BPM)
	if !e.clock.Start() {
		return
	}
	if e.state.ResetOnStart {
		for _, ch := range e.channels {
			ch.Reset()
		}
	}
}

// stop fires the synthetic stop edge: Reset-shape channels pulse once,
// everything else drops to zero.
func (e *Engine) stop() {
	if !e.clock.Stop() {
		return
	}
	for i, ch := range e.channels {
		eff := e.override.applyToChannel(i, e.state.Channels[i])
		e.outs.Volts[i], e.outs.Gates[i] = ch.StopEdge(eff)
	}
	e.stopPulse = true
}

// Snapshot copies the display-facing state. Safe to call from any
// goroutine; the engine loop is the only writer.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		State:     *e.state,
		Outputs:   e.outs,
		Menu:      e.menu.View(e.state),
		Condition: e.condition,
	}
	for i, ch := range e.channels {
		snap.Cursors[i] = ch.Cursor()
		if p := ch.Pattern(); p != nil {
			snap.Patterns[i] = append([]bool(nil), p...)
		}
	}
	if e.override.Active {
		props := routeProps(e.state.Route.Dest)
		prop := ""
		if e.state.Route.Prop >= 0 && e.state.Route.Prop < len(props) {
			prop = props[e.state.Route.Prop].name + " = "
		}
		snap.Routed = e.state.Route.Dest.Label() + " " + prop +
			e.override.Ref.Label(e.state, e.override.Index)
	}
	return snap
}

func (e *Engine) notify() {
	select {
	case e.UpdateChan <- struct{}{}:
	default:
	}
}
