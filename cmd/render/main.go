// Command render drives the engine offline with synthetic time and
// prints the channel outputs, one line per master tick. Useful for
// eyeballing wave shapes and euclidean patterns without hardware.
package main

import (
	"flag"
	"fmt"
	"time"

	"go-clockwork/config"
	"go-clockwork/engine"
)

type printDriver struct {
	last engine.Outputs
	seen bool
}

func (p *printDriver) Send(outs engine.Outputs) {
	if p.seen && outs.Tick == p.last.Tick {
		p.last = outs
		return
	}
	fmt.Printf("%06d", outs.Tick)
	for i := 0; i < engine.NumChannels; i++ {
		g := "."
		if outs.Gates[i] {
			g = "G"
		}
		fmt.Printf("  %6.3f%s", outs.Volts[i], g)
	}
	fmt.Println()
	p.last = outs
	p.seen = true
}

func main() {
	var (
		bpm   = flag.Int("bpm", 120, "master tempo")
		ticks = flag.Int("ticks", engine.PPQN*16, "master ticks to render")
		saved = flag.Bool("saved", false, "start from the saved state instead of defaults")
	)
	flag.Parse()

	state := engine.NewState()
	if *saved {
		state = config.LoadState()
	}
	state.BPM = *bpm

	drv := &printDriver{}
	eng := engine.NewEngine(state, drv, nil, nil)

	now := time.Now()
	eng.SendInput(engine.InputEvent{Kind: engine.InputStart, At: now})

	// Step just under one master tick per call so every tick lands on
	// its own control step.
	dt := time.Minute / time.Duration((*bpm)*engine.PPQN) / 2
	for drv.last.Tick < int64(*ticks) {
		now = now.Add(dt)
		eng.Tick(dt, now)
	}
}
