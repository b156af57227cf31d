// Package midi bridges the engine to MIDI hardware: channel outputs map
// to notes and CC messages, the master clock to timing-clock pulses, and
// an external controller's CC or transport messages back into the engine.
package midi

import (
	"fmt"
	"math"
	"strings"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-clockwork/debug"
	"go-clockwork/engine"
)

// Gate edges play fixed notes starting at C2, one per channel.
// Voltages go out as CC values on consecutive controllers.
const (
	gateBaseNote = 36
	cvBaseCC     = 20
	midiChannel  = 0
	gateVelocity = 100
)

// Output sends engine outputs to a MIDI port. It tracks the previous
// tick's outputs so only edges and changes hit the wire.
type Output struct {
	port drivers.Out
	send func(gomidi.Message) error

	mu   sync.Mutex
	prev engine.Outputs
	ccs  [engine.NumChannels]int
	seen bool
}

// OpenOutput opens the first output port whose name contains portName
// (case-insensitive). An empty name matches the first available port.
func OpenOutput(portName string) (*Output, error) {
	port, err := findOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output %q: %w", port.String(), err)
	}
	o := &Output{port: port, send: send}
	for i := range o.ccs {
		o.ccs[i] = -1
	}
	debug.Log("MIDI", "output open: %s", port.String())
	return o, nil
}

func findOutPort(portName string) (drivers.Out, error) {
	ports := gomidi.GetOutPorts()
	if len(ports) == 0 {
		return nil, fmt.Errorf("no MIDI output ports available")
	}
	if portName == "" {
		return ports[0], nil
	}
	want := strings.ToLower(portName)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), want) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no MIDI output port matching %q", portName)
}

// Send implements engine.Driver. Errors are logged, not returned; a
// flaky cable must not stall the tick loop.
func (o *Output) Send(outs engine.Outputs) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if outs.Running != o.prev.Running || !o.seen {
		if outs.Running {
			o.emit(gomidi.Start())
		} else if o.seen {
			o.emit(gomidi.Stop())
		}
	}

	if outs.Running && o.seen {
		for t := o.prev.Tick; t < outs.Tick; t++ {
			o.emit(gomidi.TimingClock())
		}
	}

	for i := 0; i < engine.NumChannels; i++ {
		note := uint8(gateBaseNote + i)
		if outs.Gates[i] && (!o.seen || !o.prev.Gates[i]) {
			o.emit(gomidi.NoteOn(midiChannel, note, gateVelocity))
		} else if !outs.Gates[i] && o.seen && o.prev.Gates[i] {
			o.emit(gomidi.NoteOff(midiChannel, note))
		}

		cc := voltsToCC(outs.Volts[i])
		if cc != o.ccs[i] {
			o.emit(gomidi.ControlChange(midiChannel, uint8(cvBaseCC+i), uint8(cc)))
			o.ccs[i] = cc
		}
	}

	o.prev = outs
	o.seen = true
}

func (o *Output) emit(msg gomidi.Message) {
	if err := o.send(msg); err != nil {
		debug.Log("MIDI", "send failed: %v", err)
	}
}

// Close silences any open gates and releases the port.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := 0; i < engine.NumChannels; i++ {
		if o.seen && o.prev.Gates[i] {
			o.emit(gomidi.NoteOff(midiChannel, uint8(gateBaseNote+i)))
		}
	}
	if o.prev.Running {
		o.emit(gomidi.Stop())
	}
	o.port.Close()
}

// voltsToCC maps [0, MaxVolts] onto the 7-bit CC range
func voltsToCC(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > engine.MaxVolts {
		v = engine.MaxVolts
	}
	return int(math.Round(v / engine.MaxVolts * 127))
}
