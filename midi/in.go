package midi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-clockwork/debug"
	"go-clockwork/engine"
)

// Input listens on a MIDI port for transport messages and one control
// change. Transport edges are forwarded to the engine; the CC value is
// held as a voltage so the parameter router can read it.
type Input struct {
	port drivers.In
	stop func()

	cc uint8

	mu    sync.Mutex
	volts float64
}

// OpenInput opens the first input port whose name contains portName and
// starts listening. cc selects the controller number held as the routed
// voltage source. events receives start/stop edges.
func OpenInput(portName string, cc uint8, events func(engine.InputEvent)) (*Input, error) {
	port, err := findInPort(portName)
	if err != nil {
		return nil, err
	}
	in := &Input{port: port, cc: cc}

	stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
		in.handle(msg, events)
	})
	if err != nil {
		return nil, fmt.Errorf("open input %q: %w", port.String(), err)
	}
	in.stop = stop
	debug.Log("MIDI", "input open: %s (cc %d)", port.String(), cc)
	return in, nil
}

func findInPort(portName string) (drivers.In, error) {
	ports := gomidi.GetInPorts()
	if len(ports) == 0 {
		return nil, fmt.Errorf("no MIDI input ports available")
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
	return nil, fmt.Errorf("no MIDI input port matching %q", portName)
}

func (in *Input) handle(msg gomidi.Message, events func(engine.InputEvent)) {
	var channel, cc, value uint8

	switch {
	case msg.GetControlChange(&channel, &cc, &value):
		if cc != in.cc {
			return
		}
		in.mu.Lock()
		in.volts = float64(value) / 127 * engine.MaxVolts
		in.mu.Unlock()
	case msg.Is(gomidi.StartMsg), msg.Is(gomidi.ContinueMsg):
		events(engine.InputEvent{Kind: engine.InputStart, At: time.Now()})
	case msg.Is(gomidi.StopMsg):
		events(engine.InputEvent{Kind: engine.InputStop, At: time.Now()})
	}
}

// ReadVoltage implements engine.VoltageSource with the last received CC
// value scaled onto [0, MaxVolts].
func (in *Input) ReadVoltage() float64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.volts
}

// Close stops the listener and releases the port
func (in *Input) Close() {
	if in.stop != nil {
		in.stop()
	}
	in.port.Close()
}
