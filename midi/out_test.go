package midi

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-clockwork/engine"
)

func TestVoltsToCC(t *testing.T) {
	var tests = []struct {
		volts float64
		want  int
	}{
		{0, 0},
		{engine.MaxVolts, 127},
		{engine.MaxVolts / 2, 64},
		{-1, 0},
		{99, 127},
	}
	for _, tt := range tests {
		if got := voltsToCC(tt.volts); got != tt.want {
			t.Errorf("voltsToCC(%v) = %d, want %d", tt.volts, got, tt.want)
		}
	}
}

func newTestOutput() (*Output, *[]gomidi.Message) {
	var sent []gomidi.Message
	o := &Output{send: func(m gomidi.Message) error {
		sent = append(sent, m)
		return nil
	}}
	for i := range o.ccs {
		o.ccs[i] = -1
	}
	return o, &sent
}

func count(sent []gomidi.Message, typ gomidi.Type) int {
	n := 0
	for _, m := range sent {
		if m.Is(typ) {
			n++
		}
	}
	return n
}

func TestOutputTransportEdges(t *testing.T) {
	o, sent := newTestOutput()

	o.Send(engine.Outputs{Running: true})
	if count(*sent, gomidi.StartMsg) != 1 {
		t.Errorf("start edge sent %d Start messages", count(*sent, gomidi.StartMsg))
	}

	o.Send(engine.Outputs{Running: true, Tick: 1})
	if count(*sent, gomidi.StartMsg) != 1 {
		t.Error("Start repeated while running")
	}

	o.Send(engine.Outputs{Running: false, Tick: 1})
	if count(*sent, gomidi.StopMsg) != 1 {
		t.Errorf("stop edge sent %d Stop messages", count(*sent, gomidi.StopMsg))
	}
}

func TestOutputClockPulses(t *testing.T) {
	o, sent := newTestOutput()
	o.Send(engine.Outputs{Running: true, Tick: 0})
	o.Send(engine.Outputs{Running: true, Tick: 3})
	o.Send(engine.Outputs{Running: true, Tick: 4})
	if got := count(*sent, gomidi.TimingClockMsg); got != 4 {
		t.Errorf("%d clock pulses for 4 ticks, want 4", got)
	}
}

func TestOutputGateEdges(t *testing.T) {
	o, sent := newTestOutput()

	var outs engine.Outputs
	outs.Gates[2] = true
	o.Send(outs)
	o.Send(outs) // unchanged, no retrigger
	outs.Gates[2] = false
	o.Send(outs)

	if got := count(*sent, gomidi.NoteOnMsg); got != 1 {
		t.Errorf("%d NoteOn, want 1", got)
	}
	if got := count(*sent, gomidi.NoteOffMsg); got != 1 {
		t.Errorf("%d NoteOff, want 1", got)
	}

	var channel, note, velocity uint8
	for _, m := range *sent {
		if m.GetNoteOn(&channel, &note, &velocity) {
			if note != gateBaseNote+2 {
				t.Errorf("gate 2 played note %d, want %d", note, gateBaseNote+2)
			}
		}
	}
}

func TestOutputCCOnChange(t *testing.T) {
	o, sent := newTestOutput()

	var outs engine.Outputs
	outs.Volts[0] = 5.0
	o.Send(outs)
	o.Send(outs) // same voltage, no resend
	outs.Volts[0] = 7.5
	o.Send(outs)

	ccs := 0
	var channel, cc, value uint8
	for _, m := range *sent {
		if m.GetControlChange(&channel, &cc, &value) && cc == cvBaseCC {
			ccs++
		}
	}
	// Initial send covers all six channels once, then one change
	if ccs != 2 {
		t.Errorf("channel 0 sent %d CC messages, want 2", ccs)
	}
}
