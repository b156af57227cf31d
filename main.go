package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-clockwork/config"
	"go-clockwork/debug"
	"go-clockwork/engine"
	clockmidi "go-clockwork/midi"
	"go-clockwork/theme"
	"go-clockwork/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		if dir, err := config.Dir(); err == nil {
			if err := debug.Enable(dir); err != nil {
				fmt.Printf("debug log: %v\n", err)
			}
			defer debug.Disable()
		}
	}

	// User scales extend the built-in quantizer table
	if n, err := config.LoadScales(); err != nil {
		fmt.Printf("scales: %v\n", err)
	} else if n > 0 {
		debug.Log("config", "loaded %d user scales", n)
	}

	palette := theme.Default()
	if cfg.UI.Palette != "" {
		if p, err := theme.LoadGPL(cfg.UI.Palette); err == nil {
			palette = p
		} else {
			fmt.Printf("palette %s: %v (using built-in)\n", cfg.UI.Palette, err)
		}
	}
	th := theme.New(palette)

	state := config.LoadState()

	// MIDI output is optional; the engine runs headless-to-screen without it
	var driver engine.Driver
	out, err := clockmidi.OpenOutput(cfg.MIDI.OutputPort)
	if err != nil {
		fmt.Printf("midi out: %v (running without)\n", err)
	} else {
		driver = out
		defer out.Close()
	}

	eng := engine.NewEngine(state, driver, nil, func(s engine.State) {
		if err := config.SaveState(s); err != nil {
			debug.Log("config", "state save failed: %v", err)
		}
	})

	// A MIDI input supplies transport edges and the routed CV; without
	// one the keyboard stands in for the voltage source.
	var manual *tui.ManualCV
	in, err := clockmidi.OpenInput(cfg.MIDI.InputPort, uint8(cfg.MIDI.CVControl), eng.SendInput)
	if err != nil {
		fmt.Printf("midi in: %v (keyboard CV instead)\n", err)
		manual = &tui.ManualCV{}
		eng.SetVoltageSource(manual)
	} else {
		eng.SetVoltageSource(in)
		defer in.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	m := tui.NewModel(eng, th, manual)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Persist whatever the session ended with
	if err := config.SaveState(eng.Snapshot().State); err != nil {
		fmt.Printf("state save: %v\n", err)
	}
}
